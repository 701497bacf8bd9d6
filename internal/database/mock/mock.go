package mock

import (
	"context"
	"sync"
	"time"

	"github.com/aimarketer/aimarketer/internal/database"
)

var _ database.DB = (*MockDB)(nil)

// MockDB is a mock implementation of database.DB for testing.
type MockDB struct {
	mu sync.RWMutex

	// User storage
	users      map[string]*database.User
	nextUserID uint

	// Feedback storage
	feedback       []database.Feedback
	nextFeedbackID uint

	// Error simulation
	CreateUserError        error
	GetUserByUsernameError error
	CountUsersError        error
	CreateFeedbackError    error
	GetAllFeedbackError    error
	CountFeedbackError     error

	// Calls counts every method invocation, keyed by method name.
	Calls map[string]int
}

// NewMockDB creates a new MockDB instance.
func NewMockDB() *MockDB {
	return &MockDB{
		users:          make(map[string]*database.User),
		nextUserID:     1,
		nextFeedbackID: 1,
		Calls:          make(map[string]int),
	}
}

// Reset clears all data and errors from the mock database.
func (m *MockDB) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = make(map[string]*database.User)
	m.nextUserID = 1
	m.feedback = nil
	m.nextFeedbackID = 1
	m.Calls = make(map[string]int)

	m.CreateUserError = nil
	m.GetUserByUsernameError = nil
	m.CountUsersError = nil
	m.CreateFeedbackError = nil
	m.GetAllFeedbackError = nil
	m.CountFeedbackError = nil
}

// CallCount returns how often the named method was called.
func (m *MockDB) CallCount(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Calls[method]
}

func (m *MockDB) record(method string) {
	m.mu.Lock()
	m.Calls[method]++
	m.mu.Unlock()
}

// User operations

func (m *MockDB) CreateUser(ctx context.Context, username, passwordHash string, role database.Role) (*database.User, error) {
	m.record("CreateUser")
	if m.CreateUserError != nil {
		return nil, m.CreateUserError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[username]; ok {
		return nil, database.ErrUsernameTaken
	}
	if role == "" {
		role = database.RoleUser
	}

	user := &database.User{
		ID:           m.nextUserID,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	m.nextUserID++
	m.users[username] = user

	u := *user
	return &u, nil
}

func (m *MockDB) GetUserByUsername(ctx context.Context, username string) (*database.User, error) {
	m.record("GetUserByUsername")
	if m.GetUserByUsernameError != nil {
		return nil, m.GetUserByUsernameError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[username]
	if !ok {
		return nil, database.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (m *MockDB) CountUsers(ctx context.Context, role *database.Role) (int64, error) {
	m.record("CountUsers")
	if m.CountUsersError != nil {
		return 0, m.CountUsersError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, u := range m.users {
		if role == nil || u.Role == *role {
			count++
		}
	}
	return count, nil
}

// Feedback operations

func (m *MockDB) CreateFeedback(ctx context.Context, feedback *database.Feedback) error {
	m.record("CreateFeedback")
	if m.CreateFeedbackError != nil {
		return m.CreateFeedbackError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	feedback.ID = m.nextFeedbackID
	m.nextFeedbackID++
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now()
	}
	m.feedback = append(m.feedback, *feedback)
	return nil
}

func (m *MockDB) GetAllFeedback(ctx context.Context) ([]database.Feedback, error) {
	m.record("GetAllFeedback")
	if m.GetAllFeedbackError != nil {
		return nil, m.GetAllFeedbackError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]database.Feedback, len(m.feedback))
	copy(items, m.feedback)
	return items, nil
}

func (m *MockDB) CountFeedback(ctx context.Context) (int64, error) {
	m.record("CountFeedback")
	if m.CountFeedbackError != nil {
		return 0, m.CountFeedbackError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.feedback)), nil
}

func (m *MockDB) Close() error {
	return nil
}
