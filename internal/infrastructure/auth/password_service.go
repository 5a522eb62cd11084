package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/ShujaShah/starte/domain"
)

// PasswordServiceImpl implements domain.PasswordService.
// bcrypt embeds a random per-hash salt in its output.
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordService creates a new password service; a zero cost selects bcrypt.DefaultCost
func NewPasswordService(cost int) domain.PasswordService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordServiceImpl{
		cost: cost,
	}
}

// Hash implements domain.PasswordService
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify implements domain.PasswordService
func (p *PasswordServiceImpl) Verify(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
