package flow

// Reserved state and trigger names forming the contract between chart authors
// and the engine. They are chosen so they cannot collide with signal strings
// produced by a chat platform.
const (
	// StateStart is the state assigned to users seen for the first time.
	// Charts that want to greet new users declare it like any other state.
	StateStart = "__start__"

	// TriggerFreeText is the fallback trigger resolved when no declared
	// pattern matches the inbound signal.
	TriggerFreeText = "__free_text__"

	// TriggerPhoto is the signal derived from photo events.
	TriggerPhoto = "__photo_trigger__"

	// TriggerLocation is the signal derived from location events.
	TriggerLocation = "__location_trigger__"

	// TriggerPassThrough marks a transition the dispatcher fires on its own
	// right after entering the transition's source state.
	TriggerPassThrough = "__passing_trigger__"
)
