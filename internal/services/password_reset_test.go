package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/POS-Ninjas/backend/internal/models"
	"github.com/POS-Ninjas/backend/internal/repository"
	"github.com/POS-Ninjas/backend/internal/utils"

	"github.com/jackc/pgx/v5"
)

// Мок-хранилище заявок на сброс. Погашение — CAS под мьютексом,
// как условный UPDATE в Postgres.
type mockResetRepo struct {
	mu        sync.Mutex
	users     map[string]*models.User
	resets    map[string]*models.PasswordReset
	passwords map[int64]string // user_id -> password_hash

	createCalls int
	getCalls    int
	now         func() time.Time
}

func newMockResetRepo() *mockResetRepo {
	return &mockResetRepo{
		users:     make(map[string]*models.User),
		resets:    make(map[string]*models.PasswordReset),
		passwords: make(map[int64]string),
		now:       time.Now,
	}
}

func (m *mockResetRepo) Create(_ context.Context, reset *models.PasswordReset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	reset.ID = int64(len(m.resets) + 1)
	reset.CreatedAt = m.now()
	cp := *reset
	m.resets[reset.Token] = &cp
	return nil
}

func (m *mockResetRepo) GetByToken(_ context.Context, token string) (*models.PasswordReset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	r, ok := m.resets[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *r
	if r.UsedAt != nil {
		ts := *r.UsedAt
		cp.UsedAt = &ts
	}
	return &cp, nil
}

func (m *mockResetRepo) ConsumeAndSetPassword(_ context.Context, token, passwordHash string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resets[token]
	if !ok || r.UsedAt != nil {
		return 0, repository.ErrResetConsumed
	}
	ts := m.now()
	r.UsedAt = &ts
	m.passwords[r.UserID] = passwordHash
	return r.UserID, nil
}

func (m *mockResetRepo) InvalidateOutstanding(_ context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	now := m.now()
	for _, r := range m.resets {
		if r.UserID == userID && r.UsedAt == nil && r.ExpiresAt.After(now) {
			r.ExpiresAt = now
			n++
		}
	}
	return n, nil
}

func (m *mockResetRepo) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[strings.ToLower(email)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

type mockNotifier struct {
	mu    sync.Mutex
	sent  []string // resetLink
	to    []string
	names []string
	err   error
}

func (m *mockNotifier) SendPasswordReset(_ context.Context, toEmail, firstName, resetLink string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.to = append(m.to, toEmail)
	m.names = append(m.names, firstName)
	m.sent = append(m.sent, resetLink)
	return m.err
}

type mockAudit struct {
	mu      sync.Mutex
	entries []*models.AuditLog
	err     error
}

func (m *mockAudit) Insert(_ context.Context, entry *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return m.err
}

func testUser() *models.User {
	return &models.User{
		ID:        7,
		Username:  "kasir1",
		FirstName: "Dina",
		Email:     "dina@pos.local",
		Role:      "biller",
		IsActive:  true,
	}
}

func newTestService(repo *mockResetRepo, notifier *mockNotifier, audit *mockAudit, supersede bool) *PasswordResetService {
	svc := NewPasswordResetService(repo, notifier, audit, "http://localhost:5000/", 3*time.Minute, supersede)
	return svc
}

func TestRequestReset(t *testing.T) {
	repo := newMockResetRepo()
	repo.users["dina@pos.local"] = testUser()
	notifier := &mockNotifier{}
	svc := newTestService(repo, notifier, &mockAudit{}, false)

	start := time.Now()
	reset, err := svc.RequestReset(context.Background(), "  Dina@POS.local ")
	if err != nil {
		t.Fatalf("ожидался успех, получили ошибку: %v", err)
	}
	if reset.Token == "" {
		t.Error("токен не сгенерирован")
	}
	if reset.Email != "dina@pos.local" {
		t.Errorf("в заявке должен быть снимок email пользователя, получили %q", reset.Email)
	}
	ttl := reset.ExpiresAt.Sub(start)
	if ttl < 2*time.Minute+50*time.Second || ttl > 3*time.Minute+10*time.Second {
		t.Errorf("срок жизни токена должен быть ~3 минуты, получили %v", ttl)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("письмо должно быть отправлено ровно один раз, отправлено %d", len(notifier.sent))
	}
	wantLink := "http://localhost:5000/reset-password/" + reset.Token
	if notifier.sent[0] != wantLink {
		t.Errorf("неверная ссылка в письме: %q, ожидали %q", notifier.sent[0], wantLink)
	}
	if notifier.names[0] != "Dina" {
		t.Errorf("в письме должно быть имя пользователя, получили %q", notifier.names[0])
	}
}

func TestRequestResetUnknownEmail(t *testing.T) {
	repo := newMockResetRepo()
	notifier := &mockNotifier{}
	svc := newTestService(repo, notifier, &mockAudit{}, false)

	_, err := svc.RequestReset(context.Background(), "nobody@pos.local")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("ожидали ErrUserNotFound, получили %v", err)
	}
	if repo.createCalls != 0 {
		t.Error("заявка не должна создаваться для неизвестного email")
	}
	if len(notifier.sent) != 0 {
		t.Error("письмо не должно отправляться для неизвестного email")
	}
}

func TestRequestResetNotifierFailure(t *testing.T) {
	repo := newMockResetRepo()
	repo.users["dina@pos.local"] = testUser()
	notifier := &mockNotifier{err: errors.New("smtp down")}
	svc := newTestService(repo, notifier, &mockAudit{}, false)

	reset, err := svc.RequestReset(context.Background(), "dina@pos.local")
	if err != nil {
		t.Fatalf("сбой отправки письма не должен откатывать заявку: %v", err)
	}
	// Заявка создана и остаётся погашаемой
	if _, err := repo.GetByToken(context.Background(), reset.Token); err != nil {
		t.Errorf("заявка должна существовать несмотря на сбой письма: %v", err)
	}
}

func TestRequestResetMultipleOutstanding(t *testing.T) {
	repo := newMockResetRepo()
	repo.users["dina@pos.local"] = testUser()
	svc := newTestService(repo, &mockNotifier{}, &mockAudit{}, false)

	first, err := svc.RequestReset(context.Background(), "dina@pos.local")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.RequestReset(context.Background(), "dina@pos.local")
	if err != nil {
		t.Fatal(err)
	}
	if first.Token == second.Token {
		t.Fatal("повторный запрос должен выдавать новый токен")
	}

	// Без supersede оба токена остаются действительными
	if err := svc.ResetPassword(context.Background(), first.Token, "newpass1"); err != nil {
		t.Errorf("первый токен должен оставаться действительным: %v", err)
	}
	if err := svc.ResetPassword(context.Background(), second.Token, "newpass2"); err != nil {
		t.Errorf("второй токен должен оставаться действительным: %v", err)
	}
}

func TestRequestResetSupersede(t *testing.T) {
	repo := newMockResetRepo()
	repo.users["dina@pos.local"] = testUser()
	svc := newTestService(repo, &mockNotifier{}, &mockAudit{}, true)

	first, err := svc.RequestReset(context.Background(), "dina@pos.local")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.RequestReset(context.Background(), "dina@pos.local")
	if err != nil {
		t.Fatal(err)
	}

	// При supersede действителен только последний токен
	if err := svc.ResetPassword(context.Background(), first.Token, "newpass1"); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("старый токен должен быть просрочен, получили %v", err)
	}
	if err := svc.ResetPassword(context.Background(), second.Token, "newpass2"); err != nil {
		t.Errorf("последний токен должен оставаться действительным: %v", err)
	}
}

func TestResetPasswordTooShort(t *testing.T) {
	repo := newMockResetRepo()
	svc := newTestService(repo, &mockNotifier{}, &mockAudit{}, false)

	err := svc.ResetPassword(context.Background(), "whatever", "12345")
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("ожидали ErrPasswordTooShort, получили %v", err)
	}
	// Проверка пароля идёт до обращения к хранилищу
	if repo.getCalls != 0 {
		t.Error("слишком короткий пароль не должен доходить до хранилища")
	}
}

func TestResetPasswordUnknownToken(t *testing.T) {
	svc := newTestService(newMockResetRepo(), &mockNotifier{}, &mockAudit{}, false)

	err := svc.ResetPassword(context.Background(), "no-such-token", "newpass1")
	if !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("ожидали ErrTokenNotFound, получили %v", err)
	}
}

func TestResetPasswordExpired(t *testing.T) {
	repo := newMockResetRepo()
	repo.users["dina@pos.local"] = testUser()
	svc := newTestService(repo, &mockNotifier{}, &mockAudit{}, false)

	reset, err := svc.RequestReset(context.Background(), "dina@pos.local")
	if err != nil {
		t.Fatal(err)
	}

	// Переводим часы сервиса за границу срока
	svc.now = func() time.Time { return reset.ExpiresAt.Add(time.Second) }

	err = svc.ResetPassword(context.Background(), reset.Token, "newpass1")
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("ожидали ErrTokenExpired, получили %v", err)
	}
	// Просроченный токен не должен быть помечен использованным
	rec, _ := repo.GetByToken(context.Background(), reset.Token)
	if rec.UsedAt != nil {
		t.Error("просроченный токен не должен гаситься")
	}
}

func TestResetPasswordUsed(t *testing.T) {
	repo := newMockResetRepo()
	repo.users["dina@pos.local"] = testUser()
	audit := &mockAudit{}
	svc := newTestService(repo, &mockNotifier{}, audit, false)

	reset, err := svc.RequestReset(context.Background(), "dina@pos.local")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.ResetPassword(context.Background(), reset.Token, "newpass1"); err != nil {
		t.Fatalf("первое погашение должно пройти: %v", err)
	}
	if !utils.CheckPasswordHash("newpass1", repo.passwords[7]) {
		t.Error("новый пароль должен быть сохранён в виде хеша")
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != "password_reset" {
		t.Error("успешный сброс должен попадать в аудит")
	}

	// Повторное погашение — отказ, пароль не меняется
	err = svc.ResetPassword(context.Background(), reset.Token, "hijacked")
	if !errors.Is(err, ErrTokenUsed) {
		t.Fatalf("ожидали ErrTokenUsed, получили %v", err)
	}
	if !utils.CheckPasswordHash("newpass1", repo.passwords[7]) {
		t.Error("повторное погашение не должно менять пароль")
	}
}

func TestResetPasswordExpiredAndUsed(t *testing.T) {
	repo := newMockResetRepo()
	repo.users["dina@pos.local"] = testUser()
	svc := newTestService(repo, &mockNotifier{}, &mockAudit{}, false)

	reset, err := svc.RequestReset(context.Background(), "dina@pos.local")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.ResetPassword(context.Background(), reset.Token, "newpass1"); err != nil {
		t.Fatal(err)
	}

	// Токен одновременно погашен и просрочен: срок проверяется раньше
	svc.now = func() time.Time { return reset.ExpiresAt.Add(time.Hour) }

	err = svc.ResetPassword(context.Background(), reset.Token, "newpass2")
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("просроченность проверяется раньше использованности, получили %v", err)
	}
}

func TestResetPasswordConcurrent(t *testing.T) {
	repo := newMockResetRepo()
	repo.users["dina@pos.local"] = testUser()
	svc := newTestService(repo, &mockNotifier{}, &mockAudit{}, false)

	reset, err := svc.RequestReset(context.Background(), "dina@pos.local")
	if err != nil {
		t.Fatal(err)
	}

	const n = 16
	results := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			results[i] = svc.ResetPassword(context.Background(), reset.Token, "newpass1")
		}(i)
	}
	wg.Wait()

	var wins, used int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrTokenUsed):
			used++
		default:
			t.Errorf("неожиданная ошибка конкурентного погашения: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("из конкурентных погашений должно выигрывать ровно одно, выиграло %d", wins)
	}
	if used != n-1 {
		t.Errorf("проигравшие должны получать ErrTokenUsed, получили %d из %d", used, n-1)
	}
}
