package services

import (
	"fmt"

	"github.com/Harish-hex/SIH-HealthTwin/config"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const RoleASHA = "ASHA"

// Identity is what a successful login reveals about a user.
type Identity struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	WorkerID string `json:"worker_id"`
}

// AuthProvider resolves a username and password to an identity.
type AuthProvider interface {
	Authenticate(username, password string) (*Identity, bool)
}

// Credential is one user entry. Password is plain text and is hashed on
// load; PasswordHash is used as given when set.
type Credential struct {
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	PasswordHash string `mapstructure:"password_hash"`
	Name         string `mapstructure:"name"`
	Role         string `mapstructure:"role"`
	WorkerID     string `mapstructure:"worker_id"`
}

// DefaultCredentials are the demo accounts used when no users file is
// configured.
func DefaultCredentials() []Credential {
	return []Credential{
		{Username: "asha001", Password: "asha123", Name: "Priya Sharma", Role: RoleASHA, WorkerID: "AS001"},
		{Username: "asha002", Password: "asha456", Name: "Daisy Lyngdoh", Role: RoleASHA, WorkerID: "ML001"},
		{Username: "health001", Password: "health123", Name: "Dr. Rajesh Kumar", Role: "PHC", WorkerID: "PHC001"},
		{Username: "health002", Password: "health456", Name: "Mary Kom", Role: "ANM", WorkerID: "ANM001"},
		{Username: "admin", Password: "admin123", Name: "System Administrator", Role: "ADMIN", WorkerID: "ADMIN001"},
	}
}

// LoadCredentials reads a users file (YAML, JSON or TOML, by extension)
// holding a top-level "users" list.
func LoadCredentials(path string) ([]Credential, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read users file %s: %w", path, err)
	}

	var file struct {
		Users []Credential `mapstructure:"users"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("decode users file %s: %w", path, err)
	}
	if len(file.Users) == 0 {
		return nil, fmt.Errorf("users file %s has no users", path)
	}
	return file.Users, nil
}

type staticUser struct {
	hash     []byte
	identity Identity
}

// StaticProvider authenticates against an in-memory table of bcrypt hashes.
type StaticProvider struct {
	users map[string]staticUser
}

var bcryptCost = bcrypt.DefaultCost

func NewStaticProvider(creds []Credential) (*StaticProvider, error) {
	p := &StaticProvider{users: make(map[string]staticUser, len(creds))}
	for _, c := range creds {
		if c.Username == "" {
			return nil, fmt.Errorf("credential without username")
		}
		hash := []byte(c.PasswordHash)
		if len(hash) == 0 {
			var err error
			hash, err = bcrypt.GenerateFromPassword([]byte(c.Password), bcryptCost)
			if err != nil {
				return nil, fmt.Errorf("hash password for %s: %w", c.Username, err)
			}
		}
		p.users[c.Username] = staticUser{
			hash:     hash,
			identity: Identity{Username: c.Username, Name: c.Name, Role: c.Role, WorkerID: c.WorkerID},
		}
	}
	return p, nil
}

func (p *StaticProvider) Authenticate(username, password string) (*Identity, bool) {
	u, ok := p.users[username]
	if !ok {
		return nil, false
	}
	if bcrypt.CompareHashAndPassword(u.hash, []byte(password)) != nil {
		return nil, false
	}
	id := u.identity
	return &id, true
}

// DashboardURL picks the front end a role lands on after login.
func DashboardURL(cfg config.AuthConfig, role string) string {
	if role == RoleASHA {
		return cfg.AshaDashboardURL
	}
	return cfg.HealthDashboardURL
}
