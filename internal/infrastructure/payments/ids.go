package payments

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// placeholderSuffix returns n random hex characters taken from a v4 UUID.
func placeholderSuffix(n int) string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

func unixMillis() int64 {
	return time.Now().UTC().UnixMilli()
}

func orderNumber() string {
	return fmt.Sprintf("ORDER_%d", unixMillis())
}
