package device

import "time"

// Device учетная запись устройства магазина. Один магазин — один PIN,
// устройства не различаются.
type Device struct {
	StoreID   string
	PINHash   string
	CreatedAt time.Time
}
