package service

import (
	"sort"
	"strings"
	"sync"

	"github.com/johnolamide/echo-mcp-server/internal/domain"
	"github.com/johnolamide/echo-mcp-server/internal/repository"
)

// fakeUserRepo is an in-memory domain.UserRepository.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[uint]*domain.User)}
}

func (r *fakeUserRepo) add(u domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = r.nextID
	r.nextID++
	cp := u
	r.users[cp.ID] = &cp
	return &cp
}

func (r *fakeUserRepo) Create(user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = r.nextID
	r.nextID++
	cp := *user
	r.users[cp.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByUsername(username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Update(user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	for _, u := range r.users {
		if u.ID != user.ID && (u.Username == user.Username || u.Email == user.Email) {
			return repository.ErrDuplicate
		}
	}
	cp := *user
	r.users[cp.ID] = &cp
	return nil
}

func (r *fakeUserRepo) List(filter domain.UserFilter) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		if filter.ActiveOnly && !u.IsActive {
			continue
		}
		if filter.VerifiedOnly && !u.IsVerified {
			continue
		}
		if filter.AdminOnly && !u.IsAdmin {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(u.Username, filter.Search) &&
			!strings.Contains(u.Email, filter.Search) {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) CountFlags() (active, verified, admin int64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.IsActive {
			active++
		}
		if u.IsVerified {
			verified++
		}
		if u.IsAdmin {
			admin++
		}
	}
	return active, verified, admin, nil
}

func (r *fakeUserRepo) ListChatUsers(excludeID uint) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		if u.ID == excludeID || !u.IsActive || !u.IsVerified {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// fakeMessageRepo is an in-memory domain.MessageRepository.
type fakeMessageRepo struct {
	mu     sync.Mutex
	nextID uint
	msgs   []domain.ChatMessage
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{nextID: 1}
}

func (r *fakeMessageRepo) Create(msg *domain.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = r.nextID
	r.nextID++
	r.msgs = append(r.msgs, *msg)
	return nil
}

func between(m domain.ChatMessage, a, b uint) bool {
	return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
}

func (r *fakeMessageRepo) GetBetween(userID, otherID uint, limit, offset int) ([]domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ChatMessage
	for _, m := range r.msgs {
		if between(m, userID, otherID) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMessageRepo) CountBetween(userID, otherID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.msgs {
		if between(m, userID, otherID) {
			n++
		}
	}
	return n, nil
}

func (r *fakeMessageRepo) CountUnread(receiverID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.msgs {
		if m.ReceiverID == receiverID && !m.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *fakeMessageRepo) CountUnreadFrom(senderID, receiverID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.msgs {
		if m.SenderID == senderID && m.ReceiverID == receiverID && !m.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *fakeMessageRepo) MarkReadFrom(senderID, receiverID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.msgs {
		m := &r.msgs[i]
		if m.SenderID == senderID && m.ReceiverID == receiverID && !m.IsRead {
			m.IsRead = true
			n++
		}
	}
	return n, nil
}

func (r *fakeMessageRepo) MarkReadByIDs(receiverID uint, ids []uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var n int64
	for i := range r.msgs {
		m := &r.msgs[i]
		if _, ok := want[m.ID]; ok && m.ReceiverID == receiverID && !m.IsRead {
			m.IsRead = true
			n++
		}
	}
	return n, nil
}

func (r *fakeMessageRepo) RecentForUser(userID uint, limit int) ([]domain.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ChatMessage
	for _, m := range r.msgs {
		if m.SenderID == userID || m.ReceiverID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMessageRepo) CountSent(userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.msgs {
		if m.SenderID == userID {
			n++
		}
	}
	return n, nil
}

func (r *fakeMessageRepo) CountReceived(userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.msgs {
		if m.ReceiverID == userID {
			n++
		}
	}
	return n, nil
}

// fakeServiceRepo is an in-memory domain.ServiceRepository.
type fakeServiceRepo struct {
	mu       sync.Mutex
	nextID   uint
	services map[uint]*domain.Service
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{nextID: 1, services: make(map[uint]*domain.Service)}
}

func (r *fakeServiceRepo) Create(svc *domain.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	svc.ID = r.nextID
	r.nextID++
	cp := *svc
	r.services[cp.ID] = &cp
	return nil
}

func (r *fakeServiceRepo) GetByID(id uint) (*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeServiceRepo) GetByNameAndType(name, typ string) (*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.services {
		if s.Name == name && s.Type == typ {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeServiceRepo) Update(svc *domain.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[svc.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *svc
	r.services[cp.ID] = &cp
	return nil
}

func (r *fakeServiceRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.services, id)
	return nil
}

func (r *fakeServiceRepo) List(filter domain.ServiceFilter) ([]domain.Service, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Service, 0, len(r.services))
	for _, s := range r.services {
		if !filter.IncludeInactive && !s.IsActive {
			continue
		}
		if filter.Type != "" && s.Type != filter.Type {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := int64(len(out))
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, total, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (r *fakeServiceRepo) CountByCreator(userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.services {
		if s.CreatedBy == userID {
			n++
		}
	}
	return n, nil
}

// fakePusher records pushes and can simulate offline users.
type fakePusher struct {
	mu     sync.Mutex
	online map[uint]bool
	pushed map[uint][][]byte
}

func newFakePusher(onlineIDs ...uint) *fakePusher {
	online := make(map[uint]bool)
	for _, id := range onlineIDs {
		online[id] = true
	}
	return &fakePusher{online: online, pushed: make(map[uint][][]byte)}
}

func (p *fakePusher) Push(userID uint, payload []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.online[userID] {
		return false
	}
	p.pushed[userID] = append(p.pushed[userID], payload)
	return true
}

func (p *fakePusher) IsOnline(userID uint) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online[userID]
}

func (p *fakePusher) OnlineIDs() []uint {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]uint, 0, len(p.online))
	for id, on := range p.online {
		if on {
			ids = append(ids, id)
		}
	}
	return ids
}

func (p *fakePusher) frames(userID uint) [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pushed[userID]
}
