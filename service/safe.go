package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"

	"github.com/aura-nw/msafe-core/exceptions"
	"github.com/aura-nw/msafe-core/gateway"
	"github.com/aura-nw/msafe-core/models"
	"github.com/aura-nw/msafe-core/transaction/common"
	"github.com/aura-nw/msafe-core/transaction/composer"
)

// BuildSafe merges the locally persisted record with the gateway snapshot
// into the runtime safe. Remote wins on everything it reports; the local
// row only fills gaps (a gateway outage still renders the dashboard).
func (s *Service) BuildSafe(ctx context.Context, safeID int64) (*common.Safe, error) {
	var local models.Safe
	localErr := s.DB.First(&local, "safe_id = ?", safeID).Error

	remote, err := s.Client.GetSafeInfo(ctx, safeID)
	if err != nil {
		if localErr == nil {
			s.Logger.Warn("safe info fetch failed, serving local record", zap.Int64("safeId", safeID), zap.Error(err))
			return safeFromLocal(&local), nil
		}
		return nil, exceptions.ErrSafeInfoLoad.WithDetail(err.Error())
	}

	safe, err := safeFromRemote(remote)
	if err != nil {
		return nil, err
	}

	// 2.0 refresh the local row so the safe list survives restarts
	row := models.Safe{
		SafeID:    safe.SafeID,
		Address:   safe.Address,
		ChainID:   safe.ChainID,
		Threshold: safe.Threshold,
		Sequence:  safe.Sequence,
		Status:    remote.Status,
	}
	row.SetOwners(safe.Owners)
	if localErr == nil {
		row.Creator = local.Creator
	}
	s.DB.Save(&row)

	return safe, nil
}

func safeFromLocal(row *models.Safe) *common.Safe {
	return &common.Safe{
		SafeID:    row.SafeID,
		Address:   row.Address,
		ChainID:   row.ChainID,
		Owners:    row.OwnerList(),
		Threshold: row.Threshold,
		Sequence:  row.Sequence,
	}
}

// safeFromRemote validates the threshold invariant on decode: a snapshot
// with threshold < 1 or > len(owners) is rejected, never stored.
func safeFromRemote(info *gateway.SafeInfo) (*common.Safe, error) {
	if info.Threshold < 1 || info.Threshold > len(info.Owners) {
		return nil, errors.Errorf("safe %d: threshold %d out of range for %d owners",
			info.ID, info.Threshold, len(info.Owners))
	}
	return &common.Safe{
		SafeID:    info.ID,
		Address:   info.Address,
		ChainID:   info.ChainID,
		Owners:    slices.Clone(info.Owners),
		Threshold: info.Threshold,
		Sequence:  info.Sequence,
	}, nil
}

// CreateSafe registers a new multisig wallet with the gateway. The E017
// duplicate code passes through so the surface can say "already created"
// instead of a generic failure.
func (s *Service) CreateSafe(ctx context.Context, req gateway.CreateSafeRequest) (*common.Safe, error) {
	if req.Threshold < 1 || req.Threshold > len(req.OtherOwnersAddress)+1 {
		return nil, errors.Errorf("threshold %d out of range for %d owners",
			req.Threshold, len(req.OtherOwnersAddress)+1)
	}
	for _, owner := range req.OtherOwnersAddress {
		if err := s.Composer.ValidateAddress(owner); err != nil {
			return nil, err
		}
	}

	info, err := s.Client.CreateSafe(ctx, req)
	if err != nil {
		return nil, err
	}
	safe, err := safeFromRemote(info)
	if err != nil {
		return nil, err
	}

	row := models.Safe{
		SafeID:    safe.SafeID,
		Address:   safe.Address,
		ChainID:   safe.ChainID,
		Creator:   req.CreatorAddress,
		Threshold: safe.Threshold,
		Status:    info.Status,
	}
	row.SetOwners(safe.Owners)
	s.DB.Create(&row)
	return safe, nil
}

// AllowSafe confirms the caller's participation in a pending safe.
func (s *Service) AllowSafe(ctx context.Context, safeID int64, key gateway.WalletKey) (*common.Safe, error) {
	info, err := s.Client.AllowSafe(ctx, safeID, key)
	if err != nil {
		return nil, err
	}
	return safeFromRemote(info)
}

// CancelSafe withdraws a pending safe and removes it from the local list.
// The record only leaves the list; nothing on chain is touched.
func (s *Service) CancelSafe(ctx context.Context, safeID int64, myAddress string) error {
	if err := s.Client.CancelSafe(ctx, safeID, myAddress); err != nil {
		return err
	}
	s.DB.Delete(&models.Safe{}, "safe_id = ?", safeID)
	return nil
}

// ListOwnedSafes returns the safes the owner participates in, from the
// gateway, refreshing local rows opportunistically.
func (s *Service) ListOwnedSafes(ctx context.Context, ownerAddress string) ([]gateway.OwnedSafe, error) {
	if err := s.Composer.ValidateAddress(ownerAddress); err != nil {
		return nil, exceptions.ErrInvalidAddress.WithDetail(err.Error())
	}
	return s.Client.ListSafesByOwner(ctx, ownerAddress, s.Chain.InternalChainID)
}

// StoredSafes lists the locally persisted safe records.
func (s *Service) StoredSafes() []models.Safe {
	var rows []models.Safe
	s.DB.Where("chain_id = ?", s.Chain.ChainID).Find(&rows)
	return rows
}

// BalanceView is one safe holding with its display form attached.
type BalanceView struct {
	gateway.Balance
	Shown string `json:"shown"`
}

// SafeBalances returns the safe's holdings from the gateway snapshot, with
// the native coin rendered in human units.
func (s *Service) SafeBalances(ctx context.Context, safeID int64) ([]BalanceView, error) {
	info, err := s.Client.GetSafeInfo(ctx, safeID)
	if err != nil {
		return nil, exceptions.ErrSafeInfoLoad.WithDetail(err.Error())
	}

	views := make([]BalanceView, 0, len(info.Balances))
	for _, b := range info.Balances {
		v := BalanceView{Balance: b}
		if b.Denom == s.Chain.Denom {
			if shown, err := composer.FromBaseUnits(b.Amount, s.Chain.Decimals); err == nil {
				v.Shown = shown + " " + s.Chain.Symbol
			}
		}
		views = append(views, v)
	}
	return views, nil
}

// Networks lists the chains the gateway serves.
func (s *Service) Networks(ctx context.Context) ([]gateway.NetworkInfo, error) {
	return s.Client.ListNetworks(ctx)
}

// Address book

func (s *Service) AddAddressBookEntry(address, name string) error {
	if err := s.Composer.ValidateAddress(address); err != nil {
		return exceptions.ErrInvalidAddress.WithDetail(err.Error())
	}
	var entry models.AddressBookEntry
	err := s.DB.First(&entry, "chain_id = ? AND address = ?", s.Chain.ChainID, address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.DB.Create(&models.AddressBookEntry{ChainID: s.Chain.ChainID, Address: address, Name: name}).Error
	}
	entry.Name = name
	return s.DB.Save(&entry).Error
}

func (s *Service) AddressBook() []models.AddressBookEntry {
	var entries []models.AddressBookEntry
	s.DB.Where("chain_id = ?", s.Chain.ChainID).Order("name").Find(&entries)
	return entries
}

// Token display config

// ImportToken enables a token for display, pulling decimals and symbol from
// the gateway's token detail lookup.
func (s *Service) ImportToken(ctx context.Context, address string) (*models.TokenConfig, error) {
	detail, err := s.Client.GetTokenDetail(ctx, address)
	if err != nil {
		return nil, err
	}
	row := models.TokenConfig{
		ChainID:  s.Chain.ChainID,
		Address:  detail.Address,
		Symbol:   detail.Symbol,
		Decimals: detail.Decimals,
		Enabled:  true,
	}
	if err := s.DB.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Service) SetTokenEnabled(address string, enabled bool) error {
	return s.DB.Model(&models.TokenConfig{}).
		Where("chain_id = ? AND address = ?", s.Chain.ChainID, address).
		Update("enabled", enabled).Error
}

func (s *Service) EnabledTokens() []models.TokenConfig {
	var rows []models.TokenConfig
	s.DB.Where("chain_id = ? AND enabled = ?", s.Chain.ChainID, true).Find(&rows)
	return rows
}

// Preferences

// SetPreference stores a free-form key/value client preference.
func (s *Service) SetPreference(key, value string) error {
	return s.DB.Save(&models.Preference{Key: key, Value: value}).Error
}

// GetPreference returns the stored value, empty when unset.
func (s *Service) GetPreference(key string) string {
	var row models.Preference
	if err := s.DB.First(&row, "key = ?", key).Error; err != nil {
		return ""
	}
	return row.Value
}
