package services

import (
	"github.com/lipa-nganya/test-two-sub001/internal/domain"
	"github.com/lipa-nganya/test-two-sub001/internal/domain/models"
)

// FeeSplit is the decided merchant/driver division of one delivery fee.
// DriverAmount + MerchantAmount always equals the fee within tolerance.
type FeeSplit struct {
	DriverAmount   float64 `json:"driver_amount"`
	MerchantAmount float64 `json:"merchant_amount"`
}

// DecideSplit divides a delivery fee between driver and merchant.
//
// With driver pay disabled the driver gets nothing. Otherwise an order's
// previously recorded driver pay wins when it is a positive value below the
// fee; the configured per-delivery amount is the fallback. The driver share
// never exceeds the fee and the merchant takes the remainder.
func DecideSplit(deliveryFee float64, settings models.DriverPaySettings, existingDriverPay float64) FeeSplit {
	deliveryFee = domain.Round2(deliveryFee)

	var driver float64
	if settings.Enabled {
		if existingDriverPay > 0 && existingDriverPay < deliveryFee {
			driver = domain.Round2(existingDriverPay)
		} else {
			driver = domain.Round2(settings.Amount)
		}
		if driver > deliveryFee {
			driver = deliveryFee
		}
		driver = domain.ClampNonNegative(driver)
	}

	merchant := domain.ClampNonNegative(domain.Round2(deliveryFee - driver))
	return FeeSplit{DriverAmount: driver, MerchantAmount: merchant}
}
