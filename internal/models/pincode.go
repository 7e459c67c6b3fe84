package models

import "time"

// ServiceablePincode is one entry of the delivery allow-list.
type ServiceablePincode struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Pincode   int       `json:"pincode" gorm:"uniqueIndex" bson:"pincode"`
	IsActive  bool      `json:"isActive" bson:"isActive"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// PincodeStatus is the outcome of a serviceability lookup.
type PincodeStatus string

const (
	PincodeActive   PincodeStatus = "active"
	PincodeInactive PincodeStatus = "inactive"
	PincodeNotFound PincodeStatus = "not_found"
)

// PincodeCheck is returned by the serviceability checker.
type PincodeCheck struct {
	Pincode     int           `json:"pincode"`
	Serviceable bool          `json:"serviceable"`
	Reason      PincodeStatus `json:"reason"`
}
