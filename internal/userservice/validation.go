package userservice

import (
	"fmt"
	"strings"

	"github.com/sushihentaime/bloglist/internal/common"
)

func validateUsername(v *common.Validator, username string) {
	v.Check(strings.TrimSpace(username) != "", "username", "must be provided")
	v.Check(len(username) >= usernameMinLength, "username", fmt.Sprintf("must be at least %d characters long", usernameMinLength))
}

func validateName(v *common.Validator, name string) {
	v.Check(strings.TrimSpace(name) != "", "name", "must be provided")
}

func validatePassword(v *common.Validator, password string, minLength int) {
	v.Check(password != "", "password", "must be provided")
	v.Check(v.CheckStringLength(password, minLength, passwordMaxLength), "password", fmt.Sprintf("must be between %d and %d characters long", minLength, passwordMaxLength))
}
