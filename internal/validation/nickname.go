package validation

import "github.com/templui/microblog/internal/model"

// ValidateNickname checks the nickname field of the profile form.
func ValidateNickname(errs Errors, nickname string) {
	Required(errs, "nickname", nickname)
	MaxLength(errs, "nickname", nickname, model.NicknameMaxLength)
}
