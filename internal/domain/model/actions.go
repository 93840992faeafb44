package model

// Canonical button actions. The classifier maps localized keyboard labels to
// these so downstream routing never compares user-facing strings.
const (
	ActionLocation     = "location"
	ActionSchedule     = "schedule"
	ActionContactPhone = "contact_phone"
	ActionHelp         = "help"
	ActionPrices       = "prices"
	ActionPortfolio    = "portfolio"
	ActionEstimate     = "estimate"
	ActionCalculator   = "calculator"
	ActionStats        = "stats"
	ActionBroadcast    = "broadcast"
	ActionPickupYes    = "pickup_yes"
	ActionPickupNo     = "pickup_no"
)
