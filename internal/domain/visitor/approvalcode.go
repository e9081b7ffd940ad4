package visitor

import (
	"fmt"
	"time"

	"github.com/orris-inc/visitorpass/internal/shared/id"
)

const approvalCodePrefix = "VIS"

// CodeGenerator produces a candidate approval code for the given instant.
type CodeGenerator func(at time.Time) (string, error)

// GenerateApprovalCode builds VIS + the last six digits of the unix millisecond
// clock + three random upper-case base36 characters. Uniqueness is enforced by storage.
func GenerateApprovalCode(at time.Time) (string, error) {
	suffix, err := id.GenerateFrom(id.UpperBase36, 3)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%06d%s", approvalCodePrefix, at.UnixMilli()%1_000_000, suffix), nil
}
