package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/mateusmacedo/go-railbook/internal/railbook/domain"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
)

// Directory owns the user records and, through them, every ticket.
type Directory struct {
	mu          sync.RWMutex
	users       []domain.User
	store       pkgDomain.RecordStore[domain.User]
	verifier    domain.CredentialVerifier
	idGenerator pkgDomain.IDGenerator[string]
	logger      pkgApp.AppLogger
}

func NewDirectory(
	store pkgDomain.RecordStore[domain.User],
	verifier domain.CredentialVerifier,
	idGenerator pkgDomain.IDGenerator[string],
	logger pkgApp.AppLogger,
) *Directory {
	return &Directory{
		store:       store,
		verifier:    verifier,
		idGenerator: idGenerator,
		logger:      logger,
	}
}

func (d *Directory) Load(ctx context.Context) error {
	users, err := d.store.LoadAll(ctx)
	if err != nil {
		pkgApp.LogError(ctx, d.logger, "failed to load users", err, nil)
		return fmt.Errorf("load users: %w: %w", domain.ErrPersistence, err)
	}

	d.mu.Lock()
	d.users = users
	d.mu.Unlock()

	pkgApp.LogInfo(ctx, d.logger, "user directory loaded", map[string]interface{}{"count": len(users)})
	return nil
}

// SignUp stores a new user and persists the directory. Names are unique and
// compared case-sensitively.
func (d *Directory) SignUp(ctx context.Context, name, password string) (string, error) {
	d.mu.Lock()
	if d.indexOf(name) >= 0 {
		d.mu.Unlock()
		return "", fmt.Errorf("sign up %q: %w", name, domain.ErrDuplicateName)
	}

	digest, err := d.verifier.Hash(password)
	if err != nil {
		d.mu.Unlock()
		return "", fmt.Errorf("sign up %q: %w", name, err)
	}

	user := domain.User{
		ID:             d.idGenerator(),
		Name:           name,
		HashedPassword: digest,
		Tickets:        []domain.Ticket{},
	}
	d.users = append(d.users, user)
	d.mu.Unlock()

	if err := d.Persist(ctx); err != nil {
		return user.ID, err
	}

	pkgApp.LogInfo(ctx, d.logger, "user signed up", map[string]interface{}{"user_id": user.ID})
	return user.ID, nil
}

// Login returns the user whose name matches exactly and whose digest
// verifies. An unknown name and a wrong password look the same.
func (d *Directory) Login(name, password string) (domain.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i := d.indexOf(name)
	if i < 0 || !d.verifier.Verify(password, d.users[i].HashedPassword) {
		return domain.User{}, false
	}
	return d.users[i].Clone(), true
}

func (d *Directory) Lookup(name string) (domain.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if i := d.indexOf(name); i >= 0 {
		return d.users[i].Clone(), true
	}
	return domain.User{}, false
}

// Update replaces the record with the same name. The caller persists.
func (d *Directory) Update(user domain.User) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.indexOf(user.Name)
	if i < 0 {
		return false
	}
	d.users[i] = user.Clone()
	return true
}

func (d *Directory) Persist(ctx context.Context) error {
	d.mu.RLock()
	snapshot := make([]domain.User, len(d.users))
	copy(snapshot, d.users)
	d.mu.RUnlock()

	if err := d.store.SaveAll(ctx, snapshot); err != nil {
		pkgApp.LogError(ctx, d.logger, "failed to save users", err, nil)
		return fmt.Errorf("save users: %w: %w", domain.ErrPersistence, err)
	}
	return nil
}

func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}

func (d *Directory) indexOf(name string) int {
	for i, user := range d.users {
		if user.Name == name {
			return i
		}
	}
	return -1
}
