package i18n

import "golang.org/x/text/language"

// Key identifies a user-facing message
type Key string

// Message keys
const (
	KeyBadRequest         Key = "error.bad_request"
	KeyValidation         Key = "error.validation"
	KeyValidationName     Key = "error.validation.name"
	KeyValidationPIN      Key = "error.validation.pin"
	KeyValidationRole     Key = "error.validation.role"
	KeyValidationTitle    Key = "error.validation.title"
	KeyValidationCategory Key = "error.validation.category"
	KeyValidationDueDate  Key = "error.validation.due_date"
	KeyInvalidInviteCode  Key = "error.invalid_invite_code"
	KeyCoupleComplete     Key = "error.couple_complete"
	KeyInviteExhausted    Key = "error.invite_exhausted"
	KeyDuplicateName      Key = "error.duplicate_name"
	KeyCredentialMismatch Key = "error.credential_mismatch"
	KeyAdminPassword      Key = "error.admin_password"
	KeyUnauthorized       Key = "error.unauthorized"
	KeyForbidden          Key = "error.forbidden"
	KeyNotFound           Key = "error.not_found"
	KeyInternal           Key = "error.internal"
)

var korean = map[Key]string{
	KeyBadRequest:         "요청 형식이 올바르지 않습니다",
	KeyValidation:         "입력값이 올바르지 않습니다",
	KeyValidationName:     "이름은 1~30자로 입력해 주세요",
	KeyValidationPIN:      "PIN은 숫자 4자리여야 합니다",
	KeyValidationRole:     "역할은 신부 또는 신랑 중에서 선택해 주세요",
	KeyValidationTitle:    "제목은 1~100자로 입력해 주세요",
	KeyValidationCategory: "분류는 30자 이내로 입력해 주세요",
	KeyValidationDueDate:  "날짜 형식이 올바르지 않습니다 (YYYY-MM-DD)",
	KeyInvalidInviteCode:  "유효하지 않은 초대 코드입니다",
	KeyCoupleComplete:     "이미 커플이 완성되었습니다",
	KeyInviteExhausted:    "초대 코드를 만들 수 없습니다. 다시 시도해 주세요",
	KeyDuplicateName:      "이미 같은 이름의 멤버가 있습니다",
	KeyCredentialMismatch: "이름 또는 PIN이 일치하지 않습니다",
	KeyAdminPassword:      "관리자 비밀번호가 일치하지 않습니다",
	KeyUnauthorized:       "로그인이 필요합니다",
	KeyForbidden:          "관리자 권한이 필요합니다",
	KeyNotFound:           "요청한 항목을 찾을 수 없습니다",
	KeyInternal:           "서버 오류가 발생했습니다. 잠시 후 다시 시도해 주세요",
}

var english = map[Key]string{
	KeyBadRequest:         "Malformed request body",
	KeyValidation:         "Invalid input",
	KeyValidationName:     "Name must be 1-30 characters of plain text",
	KeyValidationPIN:      "PIN must be exactly 4 digits",
	KeyValidationRole:     "Role must be bride or groom",
	KeyValidationTitle:    "Title must be 1-100 characters of plain text",
	KeyValidationCategory: "Category must be at most 30 characters of plain text",
	KeyValidationDueDate:  "Due date must be formatted YYYY-MM-DD",
	KeyInvalidInviteCode:  "Invalid invite code",
	KeyCoupleComplete:     "This couple is already complete",
	KeyInviteExhausted:    "Could not create an invite code, please try again",
	KeyDuplicateName:      "Someone in this couple already uses that name",
	KeyCredentialMismatch: "Name or PIN does not match",
	KeyAdminPassword:      "Incorrect admin password",
	KeyUnauthorized:       "Please log in first",
	KeyForbidden:          "Admin access required",
	KeyNotFound:           "Not found",
	KeyInternal:           "Something went wrong, please try again later",
}

var catalogs = map[language.Tag]map[Key]string{
	language.Korean:  korean,
	language.English: english,
}
