package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationFailure(errs []ValidationError) *DomainError {
	msg := "validation failed: "
	for i, e := range errs {
		if i > 0 {
			msg += ", "
		}
		msg += e.Field + " (" + e.Message + ")"
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: msg,
		Fields:  errs,
	}
}

func required(errs []ValidationError, field, value string) []ValidationError {
	if strings.TrimSpace(value) == "" {
		return append(errs, ValidationError{field, "is required"})
	}
	return errs
}

var nonDigit = regexp.MustCompile(`\D`)

// OnlyDigits remove a máscara de CPF, CNPJ, telefone ou CEP.
func OnlyDigits(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

func IsValidCPF(cpf string) bool {
	d := OnlyDigits(cpf)
	if len(d) != 11 || allEqual(d) {
		return false
	}
	return checkDigit(d[:9], cpfWeights[1:]) == int(d[9]-'0') &&
		checkDigit(d[:10], cpfWeights) == int(d[10]-'0')
}

func IsValidCNPJ(cnpj string) bool {
	d := OnlyDigits(cnpj)
	if len(d) != 14 || allEqual(d) {
		return false
	}
	return checkDigit(d[:12], cnpjWeights[1:]) == int(d[12]-'0') &&
		checkDigit(d[:13], cnpjWeights) == int(d[13]-'0')
}

var (
	cpfWeights  = []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// módulo 11 da Receita: resto < 2 vira 0
func checkDigit(digits string, weights []int) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * weights[i]
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

func allEqual(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// FormatCPF aplica a máscara 000.000.000-00. Entradas incompletas são mascaradas até onde vão.
func FormatCPF(cpf string) string {
	return applyMask(OnlyDigits(cpf), "###.###.###-##")
}

// FormatCNPJ aplica a máscara 00.000.000/0000-00.
func FormatCNPJ(cnpj string) string {
	return applyMask(OnlyDigits(cnpj), "##.###.###/####-##")
}

// FormatDocument escolhe a máscara pela quantidade de dígitos, como o campo do formulário.
func FormatDocument(doc string) string {
	if len(OnlyDigits(doc)) > 11 {
		return FormatCNPJ(doc)
	}
	return FormatCPF(doc)
}

func applyMask(digits, mask string) string {
	var b strings.Builder
	i := 0
	for _, m := range mask {
		if i >= len(digits) {
			break
		}
		if m == '#' {
			b.WriteByte(digits[i])
			i++
			continue
		}
		b.WriteRune(m)
	}
	return b.String()
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func isValidPhoneNumber(phone string) bool {
	cleaned := OnlyDigits(phone)
	return len(cleaned) >= 10 && len(cleaned) <= 11
}

func isValidZipCode(zipcode string) bool {
	return len(OnlyDigits(zipcode)) == 8
}
