package model

import (
	"encoding/json"
	"time"
)

// Kind identifies one of the colony event shapes carried by the feed.
type Kind string

const (
	KindColonyInitialised Kind = "ColonyInitialised"
	KindColonyRoleSet     Kind = "ColonyRoleSet"
	KindPayoutClaimed     Kind = "PayoutClaimed"
	KindDomainAdded       Kind = "DomainAdded"
)

// Kinds lists every event kind in the order the feed concatenates them.
var Kinds = []Kind{
	KindColonyInitialised,
	KindColonyRoleSet,
	KindPayoutClaimed,
	KindDomainAdded,
}

// Record is a normalized colony event. The set of implementations is closed:
// ColonyInitialised, ColonyRoleSet, PayoutClaimed and DomainAdded.
type Record interface {
	Kind() Kind
	Header() Base
	Wire() interface{}
	isRecord()
}

// Base holds the attributes shared by every record.
type Base struct {
	ID          string
	LogTime     *time.Time
	UserAddress string
}

// Header returns the shared attributes.
func (b Base) Header() Base { return b }

// Time returns the block time and whether it was resolved.
func (b Base) Time() (time.Time, bool) {
	if b.LogTime == nil {
		return time.Time{}, false
	}
	return *b.LogTime, true
}

// ColonyInitialised marks the colony contract initialisation.
type ColonyInitialised struct {
	Base
}

// ColonyRoleSet records a role grant or revocation in a domain.
type ColonyRoleSet struct {
	Base
	Role     string
	DomainID string
}

// PayoutClaimed records a payout claimed from a funding pot.
type PayoutClaimed struct {
	Base
	Amount       string
	FundingPotID string
	Token        string
}

// DomainAdded records a new domain.
type DomainAdded struct {
	Base
	DomainID string
}

func (ColonyInitialised) Kind() Kind { return KindColonyInitialised }
func (ColonyRoleSet) Kind() Kind     { return KindColonyRoleSet }
func (PayoutClaimed) Kind() Kind     { return KindPayoutClaimed }
func (DomainAdded) Kind() Kind       { return KindDomainAdded }

func (ColonyInitialised) isRecord() {}
func (ColonyRoleSet) isRecord()     {}
func (PayoutClaimed) isRecord()     {}
func (DomainAdded) isRecord()       {}

// WireHeader is the encoded form of Base plus the type tag.
type WireHeader struct {
	ID          string     `json:"id" yaml:"id"`
	LogTime     *time.Time `json:"logTime,omitempty" yaml:"logTime,omitempty"`
	Type        Kind       `json:"type" yaml:"type"`
	UserAddress string     `json:"userAddress" yaml:"userAddress"`
}

func (b Base) wire(kind Kind) WireHeader {
	return WireHeader{ID: b.ID, LogTime: b.LogTime, Type: kind, UserAddress: b.UserAddress}
}

// MarshalJSON encodes the record with its type tag.
func (r ColonyInitialised) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Wire())
}

// MarshalJSON encodes the record with its type tag.
func (r ColonyRoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Wire())
}

// MarshalJSON encodes the record with its type tag.
func (r PayoutClaimed) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Wire())
}

// MarshalJSON encodes the record with its type tag.
func (r DomainAdded) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Wire())
}

// Wire returns the flat encoding shape used by JSON and YAML writers.
func (r ColonyInitialised) Wire() interface{} {
	return r.Base.wire(r.Kind())
}

// Wire returns the flat encoding shape used by JSON and YAML writers.
func (r ColonyRoleSet) Wire() interface{} {
	return struct {
		WireHeader `yaml:",inline"`
		Role       string `json:"role" yaml:"role"`
		DomainID   string `json:"domainId" yaml:"domainId"`
	}{r.Base.wire(r.Kind()), r.Role, r.DomainID}
}

// Wire returns the flat encoding shape used by JSON and YAML writers.
func (r PayoutClaimed) Wire() interface{} {
	return struct {
		WireHeader   `yaml:",inline"`
		Amount       string `json:"amount" yaml:"amount"`
		FundingPotID string `json:"fundingPotId" yaml:"fundingPotId"`
		Token        string `json:"token" yaml:"token"`
	}{r.Base.wire(r.Kind()), r.Amount, r.FundingPotID, r.Token}
}

// Wire returns the flat encoding shape used by JSON and YAML writers.
func (r DomainAdded) Wire() interface{} {
	return struct {
		WireHeader `yaml:",inline"`
		DomainID   string `json:"domainId" yaml:"domainId"`
	}{r.Base.wire(r.Kind()), r.DomainID}
}
