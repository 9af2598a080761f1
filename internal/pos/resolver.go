// Package pos implements the point-of-sale card flow: resolving a
// decoded card string to a wallet and executing the charge.
package pos

import (
	"errors"
	"strconv"
	"strings"

	"payments_admin/internal/domain"
	"payments_admin/internal/nfc"

	"gorm.io/gorm"
)

// ErrCardNotRecognized means no wallet, user, or registered tag matched
// the candidate. Terminal for the scan; the operator must retry.
var ErrCardNotRecognized = errors.New("card not recognized")

// Resolution describes how a candidate string matched a wallet
type Resolution struct {
	Wallet  domain.Wallet // The wallet to charge
	MatchBy string        // "wallet", "user", or "tag"
}

// Resolve maps a decoded card string to a wallet. Lookup order is
// fixed: wallet id first, then user id, then registered tag serial;
// the first match wins.
func Resolve(db *gorm.DB, candidate string) (*Resolution, error) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return nil, ErrCardNotRecognized
	}

	// (a) Candidate as a wallet id
	if nfc.LooksLikeUUID(candidate) {
		var wallet domain.Wallet
		if err := db.Where("id = ?", strings.ToLower(candidate)).First(&wallet).Error; err == nil {
			return &Resolution{Wallet: wallet, MatchBy: "wallet"}, nil
		}
	}

	// (b) Candidate as a user id, resolved to that user's wallet
	if userID, err := strconv.ParseUint(candidate, 10, 32); err == nil {
		var wallet domain.Wallet
		if err := db.Where("user_id = ?", uint(userID)).First(&wallet).Error; err == nil {
			return &Resolution{Wallet: wallet, MatchBy: "user"}, nil
		}
	}

	// (c) Candidate as a registered tag serial
	var tag domain.NfcTag
	if err := db.Where("serial = ? AND active = ?", strings.ToLower(candidate), true).First(&tag).Error; err == nil {
		if tag.WalletID != nil {
			var wallet domain.Wallet
			if err := db.Where("id = ?", *tag.WalletID).First(&wallet).Error; err == nil {
				return &Resolution{Wallet: wallet, MatchBy: "tag"}, nil
			}
		}
		if tag.UserID != nil {
			var wallet domain.Wallet
			if err := db.Where("user_id = ?", *tag.UserID).First(&wallet).Error; err == nil {
				return &Resolution{Wallet: wallet, MatchBy: "tag"}, nil
			}
		}
	}

	return nil, ErrCardNotRecognized
}
