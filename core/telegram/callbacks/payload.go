package callbacks

import (
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// PayloadInt64 parses the callback payload as int64, the usual shape for
// entity ids routed through one pattern transition.
func PayloadInt64(c tele.Context) (int64, error) {
	return strconv.ParseInt(CallbackPayload(c), 10, 64)
}

// PayloadInt parses the callback payload as int.
func PayloadInt(c tele.Context) (int, error) {
	return strconv.Atoi(CallbackPayload(c))
}

// PayloadFloat64 parses the callback payload as float64.
func PayloadFloat64(c tele.Context) (float64, error) {
	return strconv.ParseFloat(CallbackPayload(c), 64)
}

// PayloadParts splits the callback payload using the given separator.
func PayloadParts(c tele.Context, sep string) ([]string, error) {
	p := CallbackPayload(c)
	if p == "" {
		return nil, strconv.ErrSyntax
	}
	return strings.Split(p, sep), nil
}

// PayloadTwoInt64 parses a payload like "123|456" into two int64 values.
func PayloadTwoInt64(c tele.Context, sep string) (int64, int64, error) {
	parts, err := PayloadParts(c, sep)
	if err != nil {
		return 0, 0, err
	}
	if len(parts) != 2 {
		return 0, 0, strconv.ErrSyntax
	}
	a, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// SignalSuffix returns the part of a raw signal after the given prefix, for
// actions inside pattern transitions that need the variable tail of the
// matched signal ("vote|12" with prefix "vote|" yields "12").
func SignalSuffix(signal, prefix string) (string, bool) {
	return strings.CutPrefix(signal, prefix)
}
