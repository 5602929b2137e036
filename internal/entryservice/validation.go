package entryservice

import (
	"strings"

	"github.com/sushihentaime/diarist/internal/common"
)

func validateTitle(v *common.Validator, title string) {
	v.Check(strings.TrimSpace(title) != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 1, 200), "title", "must be between 1 and 200 characters long")
}
