package decision

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strconv"

	"github.com/openraise/screening/internal/domain"
)

// ContentHash produces a stable digest of everything that influences a
// verdict, used as the verdict-cache key. Two submissions with the same hash
// are moderated identically. Image payload bytes are part of the digest:
// the same metadata with different image content must be screened again.
func ContentHash(campaign domain.Campaign, payloads [][]byte) string {
	h := sha256.New()
	write := func(s string) {
		_, _ = io.WriteString(h, s)
		_, _ = h.Write([]byte{0})
	}

	write(campaign.Title)
	write(campaign.Description)
	write(strconv.FormatInt(campaign.Goal, 10))
	write(campaign.Category)
	for _, link := range campaign.Links {
		write(link)
	}
	for _, img := range campaign.Images {
		write(img.ID)
		write(img.MIMEType)
	}
	for _, payload := range payloads {
		sum := sha256.Sum256(payload)
		write(hex.EncodeToString(sum[:]))
	}
	write(campaign.Creator.UserID)
	write(strconv.Itoa(campaign.Creator.AccountAgeDays))
	write(strconv.FormatBool(campaign.Creator.VerifiedEmail))
	write(strconv.FormatBool(campaign.Creator.VerifiedIdentity))

	return hex.EncodeToString(h.Sum(nil))
}
