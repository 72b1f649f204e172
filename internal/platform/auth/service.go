package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrAuthFailed = errors.New("authentication failed")

type Service struct {
	store    AccountStore
	secret   []byte
	tokenTTL time.Duration
}

// 비밀 키는 전역이 아니라 설정에서 주입받는다.
func NewService(db *sql.DB, secret string, tokenTTLHours int) *Service {
	ttl := time.Duration(tokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{store: NewStore(db), secret: []byte(secret), tokenTTL: ttl}
}

func (s *Service) Secret() []byte { return s.secret }

func (s *Service) Login(ctx context.Context, id, password string) (string, error) {
	acct, err := s.store.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if acct == nil {
		return "", ErrAuthFailed
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return "", ErrAuthFailed
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": acct.ID,
		"exp": time.Now().Add(s.tokenTTL).Unix(),
	})
	return token.SignedString(s.secret)
}

// EnsureAdmin: 계정 테이블이 비어 있으면 설정의 관리자 계정을 생성한다.
// 별도 가입 API는 없다 (관리자는 소수 고정).
func (s *Service) EnsureAdmin(ctx context.Context, id, password string) error {
	if id == "" || password == "" {
		return nil
	}
	n, err := s.store.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.store.Create(ctx, &Account{ID: id, PasswordHash: string(hash)})
}
