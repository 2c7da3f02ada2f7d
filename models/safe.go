package models

import "encoding/json"

// Safe is the locally persisted multisig account record. Owners is a JSON
// blob column; the gateway remains the source of truth and this row is
// refreshed on every successful poll. Rows are only removed from the list,
// never deleted by the chain.
type Safe struct {
	SafeID    int64  `gorm:"primaryKey" json:"safeId"`
	Address   string `gorm:"index" json:"address"`
	ChainID   string `gorm:"index" json:"chainId"`
	Creator   string `json:"creator"`
	Threshold int    `json:"threshold"`
	Sequence  int64  `json:"sequence"`
	Owners    string `json:"-"`
	Status    string `json:"status"`
}

func (s *Safe) OwnerList() []string {
	var owners []string
	if s.Owners != "" {
		_ = json.Unmarshal([]byte(s.Owners), &owners)
	}
	return owners
}

func (s *Safe) SetOwners(owners []string) {
	raw, err := json.Marshal(owners)
	if err != nil {
		return
	}
	s.Owners = string(raw)
}
