package models

// Settings keys for per-delivery driver pay.
const (
	SettingDriverPayEnabledKey = "driver_pay_per_delivery_enabled"
	SettingDriverPayAmountKey  = "driver_pay_per_delivery_amount"
)

// DriverPaySettings is the typed driver-pay configuration handed to the
// settlement policy. Read-only from the engine's perspective; values may
// change between invocations.
type DriverPaySettings struct {
	Enabled bool    `json:"enabled"`
	Amount  float64 `json:"amount"`
}
