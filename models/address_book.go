package models

import "gorm.io/gorm"

// AddressBookEntry is a user-named address, scoped to a chain.
type AddressBookEntry struct {
	gorm.Model
	ChainID string `gorm:"index" json:"chainId"`
	Address string `gorm:"index" json:"address"`
	Name    string `json:"name"`
}

// TokenConfig is the per-token display configuration: which tokens the
// dashboard shows for a safe and how to scale them.
type TokenConfig struct {
	gorm.Model
	ChainID  string `gorm:"index" json:"chainId"`
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals int32  `json:"decimals"`
	Enabled  bool   `gorm:"default:true" json:"enabled"`
}

// Preference is a free-form key/value blob: last-used wallet provider,
// last-viewed safe and similar session leftovers.
type Preference struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `json:"value"`
}
