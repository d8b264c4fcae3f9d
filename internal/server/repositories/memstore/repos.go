package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/evoting/internal/common"
	"github.com/dmitrijs2005/evoting/internal/server/models"
)

func (s *Store) locked(op string, fn func(d *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault(op); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return fn(&s.data)
}

type tenantRepo struct{ s *Store }

func (r tenantRepo) Create(ctx context.Context, t *models.Tenant) (*models.Tenant, error) {
	err := r.s.locked("tenants.Create", func(d *state) error {
		for _, existing := range d.tenants {
			if existing.Name == t.Name {
				return fmt.Errorf("%w: tenant %q already exists", common.ErrorConflict, t.Name)
			}
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now().UTC()
		}
		d.tenants[t.ID] = *t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r tenantRepo) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	var out models.Tenant
	err := r.s.locked("tenants.GetByID", func(d *state) error {
		t, ok := d.tenants[id]
		if !ok {
			return common.ErrorNotFound
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	err := r.s.locked("users.Create", func(d *state) error {
		for _, existing := range d.users {
			if existing.Email == u.Email {
				return fmt.Errorf("%w: email %q already registered", common.ErrorConflict, u.Email)
			}
		}
		if u.CreatedAt.IsZero() {
			u.CreatedAt = time.Now().UTC()
		}
		d.users[u.ID] = *u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var out models.User
	err := r.s.locked("users.GetByID", func(d *state) error {
		u, ok := d.users[id]
		if !ok {
			return common.ErrorNotFound
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var out *models.User
	err := r.s.locked("users.GetByEmail", func(d *state) error {
		for _, u := range d.users {
			if u.Email == email {
				u := u
				out = &u
				return nil
			}
		}
		return common.ErrorNotFound
	})
	return out, err
}

func (r userRepo) ListByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	var out []*models.User
	err := r.s.locked("users.ListByIDs", func(d *state) error {
		for _, id := range ids {
			if u, ok := d.users[id]; ok {
				u := u
				out = append(out, &u)
			}
		}
		return nil
	})
	return out, err
}

type listRepo struct{ s *Store }

func (r listRepo) Create(ctx context.Context, l *models.List) (*models.List, error) {
	err := r.s.locked("lists.Create", func(d *state) error {
		d.lists[l.ID] = *l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r listRepo) GetByID(ctx context.Context, id string) (*models.List, error) {
	var out models.List
	err := r.s.locked("lists.GetByID", func(d *state) error {
		l, ok := d.lists[id]
		if !ok {
			return common.ErrorNotFound
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type electionRepo struct{ s *Store }

func (r electionRepo) Create(ctx context.Context, e *models.Election) (*models.Election, error) {
	err := r.s.locked("elections.Create", func(d *state) error {
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now().UTC()
		}
		d.elections[e.ID] = *e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r electionRepo) get(op, id string) (*models.Election, error) {
	var out models.Election
	err := r.s.locked(op, func(d *state) error {
		e, ok := d.elections[id]
		if !ok {
			return common.ErrorNotFound
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r electionRepo) GetByID(ctx context.Context, id string) (*models.Election, error) {
	return r.get("elections.GetByID", id)
}

// GetForUpdate needs no row lock here: transactions are already exclusive.
func (r electionRepo) GetForUpdate(ctx context.Context, id string) (*models.Election, error) {
	return r.get("elections.GetForUpdate", id)
}

func (r electionRepo) filter(op string, keep func(models.Election) bool, less func(a, b *models.Election) bool) ([]*models.Election, error) {
	var out []*models.Election
	err := r.s.locked(op, func(d *state) error {
		for _, e := range d.elections {
			if keep(e) {
				e := e
				out = append(out, &e)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, err
}

func (r electionRepo) List(ctx context.Context, tenantID string) ([]*models.Election, error) {
	return r.filter("elections.List",
		func(e models.Election) bool { return tenantID == "" || e.TenantID == tenantID },
		func(a, b *models.Election) bool { return a.StartAt.After(b.StartAt) })
}

func (r electionRepo) Update(ctx context.Context, e *models.Election) error {
	return r.s.locked("elections.Update", func(d *state) error {
		cur, ok := d.elections[e.ID]
		if !ok {
			return common.ErrorNotFound
		}
		cur.Title = e.Title
		cur.Description = e.Description
		cur.StartAt = e.StartAt
		cur.EndAt = e.EndAt
		cur.VotingType = e.VotingType
		cur.Anonymous = e.Anonymous
		d.elections[e.ID] = cur
		return nil
	})
}

func (r electionRepo) UpdateState(ctx context.Context, id string, from, to models.ElectionState) (bool, error) {
	var ok bool
	err := r.s.locked("elections.UpdateState", func(d *state) error {
		cur, found := d.elections[id]
		if !found || cur.State != from {
			return nil
		}
		cur.State = to
		d.elections[id] = cur
		ok = true
		return nil
	})
	return ok, err
}

func (r electionRepo) Delete(ctx context.Context, id string) error {
	return r.s.locked("elections.Delete", func(d *state) error {
		if _, ok := d.elections[id]; !ok {
			return common.ErrorNotFound
		}
		delete(d.elections, id)
		for pid, p := range d.positions {
			if p.ElectionID != id {
				continue
			}
			delete(d.positions, pid)
			for cid, c := range d.candidates {
				if c.PositionID == pid {
					delete(d.candidates, cid)
				}
			}
		}
		for k := range d.regs {
			if k.election == id {
				delete(d.regs, k)
			}
		}
		return nil
	})
}

func (r electionRepo) ListStartDue(ctx context.Context, now time.Time) ([]*models.Election, error) {
	return r.filter("elections.ListStartDue",
		func(e models.Election) bool { return e.State == models.StatePending && !e.StartAt.After(now) },
		func(a, b *models.Election) bool { return a.StartAt.Before(b.StartAt) })
}

func (r electionRepo) ListEndDue(ctx context.Context, now time.Time) ([]*models.Election, error) {
	return r.filter("elections.ListEndDue",
		func(e models.Election) bool { return e.State == models.StateActive && !e.EndAt.After(now) },
		func(a, b *models.Election) bool { return a.EndAt.Before(b.EndAt) })
}

type positionRepo struct{ s *Store }

func (r positionRepo) Create(ctx context.Context, p *models.Position) (*models.Position, error) {
	err := r.s.locked("positions.Create", func(d *state) error {
		for _, existing := range d.positions {
			if existing.ElectionID == p.ElectionID && existing.Name == p.Name {
				return fmt.Errorf("%w: position %q already exists in election", common.ErrorConflict, p.Name)
			}
		}
		d.positions[p.ID] = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r positionRepo) GetByID(ctx context.Context, id string) (*models.Position, error) {
	var out models.Position
	err := r.s.locked("positions.GetByID", func(d *state) error {
		p, ok := d.positions[id]
		if !ok {
			return common.ErrorNotFound
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r positionRepo) ListByElection(ctx context.Context, electionID string) ([]models.Position, error) {
	var out []models.Position
	err := r.s.locked("positions.ListByElection", func(d *state) error {
		for _, p := range d.positions {
			if p.ElectionID == electionID {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r positionRepo) Update(ctx context.Context, p *models.Position) error {
	return r.s.locked("positions.Update", func(d *state) error {
		cur, ok := d.positions[p.ID]
		if !ok {
			return common.ErrorNotFound
		}
		for _, existing := range d.positions {
			if existing.ID != p.ID && existing.ElectionID == cur.ElectionID && existing.Name == p.Name {
				return fmt.Errorf("%w: position %q already exists in election", common.ErrorConflict, p.Name)
			}
		}
		cur.Name = p.Name
		cur.MaxSelectable = p.MaxSelectable
		d.positions[p.ID] = cur
		return nil
	})
}

func (r positionRepo) Delete(ctx context.Context, id string) error {
	return r.s.locked("positions.Delete", func(d *state) error {
		if _, ok := d.positions[id]; !ok {
			return common.ErrorNotFound
		}
		delete(d.positions, id)
		for cid, c := range d.candidates {
			if c.PositionID == id {
				delete(d.candidates, cid)
			}
		}
		return nil
	})
}

type candidateRepo struct{ s *Store }

func (r candidateRepo) Create(ctx context.Context, c *models.Candidate) (*models.Candidate, error) {
	err := r.s.locked("candidates.Create", func(d *state) error {
		for _, existing := range d.candidates {
			if existing.PositionID == c.PositionID && existing.OrderNumber == c.OrderNumber {
				return fmt.Errorf("%w: order number %d already taken", common.ErrorConflict, c.OrderNumber)
			}
		}
		d.candidates[c.ID] = *c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r candidateRepo) GetByID(ctx context.Context, id string) (*models.Candidate, error) {
	var out models.Candidate
	err := r.s.locked("candidates.GetByID", func(d *state) error {
		c, ok := d.candidates[id]
		if !ok {
			return common.ErrorNotFound
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r candidateRepo) ListByElection(ctx context.Context, electionID string) ([]models.Candidate, error) {
	var out []models.Candidate
	err := r.s.locked("candidates.ListByElection", func(d *state) error {
		for _, c := range d.candidates {
			if p, ok := d.positions[c.PositionID]; ok && p.ElectionID == electionID {
				out = append(out, c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].PositionID != out[j].PositionID {
			return out[i].PositionID < out[j].PositionID
		}
		return out[i].OrderNumber < out[j].OrderNumber
	})
	return out, err
}

func (r candidateRepo) CountByPosition(ctx context.Context, positionID string) (int64, error) {
	var n int64
	err := r.s.locked("candidates.CountByPosition", func(d *state) error {
		for _, c := range d.candidates {
			if c.PositionID == positionID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r candidateRepo) Update(ctx context.Context, c *models.Candidate) error {
	return r.s.locked("candidates.Update", func(d *state) error {
		cur, ok := d.candidates[c.ID]
		if !ok {
			return common.ErrorNotFound
		}
		for _, existing := range d.candidates {
			if existing.ID != c.ID && existing.PositionID == cur.PositionID && existing.OrderNumber == c.OrderNumber {
				return fmt.Errorf("%w: order number %d already taken", common.ErrorConflict, c.OrderNumber)
			}
		}
		next := *c
		next.PositionID = cur.PositionID
		d.candidates[c.ID] = next
		return nil
	})
}

func (r candidateRepo) Delete(ctx context.Context, id string) error {
	return r.s.locked("candidates.Delete", func(d *state) error {
		if _, ok := d.candidates[id]; !ok {
			return common.ErrorNotFound
		}
		delete(d.candidates, id)
		return nil
	})
}

type registrationRepo struct{ s *Store }

func (r registrationRepo) Get(ctx context.Context, electionID, voterID string) (*models.VoterRegistration, error) {
	var out models.VoterRegistration
	err := r.s.locked("registrations.Get", func(d *state) error {
		reg, ok := d.regs[regKey{electionID, voterID}]
		if !ok {
			return common.ErrorNotFound
		}
		out = reg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r registrationRepo) Insert(ctx context.Context, electionID, voterID string) (bool, error) {
	var added bool
	err := r.s.locked("registrations.Insert", func(d *state) error {
		k := regKey{electionID, voterID}
		if _, ok := d.regs[k]; ok {
			return nil
		}
		d.regs[k] = models.VoterRegistration{ElectionID: electionID, VoterID: voterID}
		added = true
		return nil
	})
	return added, err
}

func (r registrationRepo) MarkVoted(ctx context.Context, electionID, voterID string) (bool, error) {
	var flipped bool
	err := r.s.locked("registrations.MarkVoted", func(d *state) error {
		k := regKey{electionID, voterID}
		reg, ok := d.regs[k]
		if !ok || reg.HasVoted {
			return nil
		}
		reg.HasVoted = true
		d.regs[k] = reg
		flipped = true
		return nil
	})
	return flipped, err
}

func (r registrationRepo) Counts(ctx context.Context, electionID string) (*models.Participation, error) {
	p := &models.Participation{ElectionID: electionID}
	err := r.s.locked("registrations.Counts", func(d *state) error {
		for k, reg := range d.regs {
			if k.election != electionID {
				continue
			}
			p.TotalRegistered++
			if reg.HasVoted {
				p.TotalVoted++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

type voteRepo struct{ s *Store }

func (r voteRepo) Last(ctx context.Context, electionID string) (*models.Vote, error) {
	var out models.Vote
	err := r.s.locked("votes.Last", func(d *state) error {
		ledger := d.votes[electionID]
		if len(ledger) == 0 {
			return common.ErrorNotFound
		}
		out = ledger[len(ledger)-1]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r voteRepo) Insert(ctx context.Context, v *models.Vote) error {
	return r.s.locked("votes.Insert", func(d *state) error {
		for _, existing := range d.votes[v.ElectionID] {
			if existing.Seq == v.Seq || existing.VoterID == v.VoterID {
				return fmt.Errorf("%w: vote already recorded", common.ErrorConflict)
			}
		}
		ledger := append(d.votes[v.ElectionID], *v)
		sort.Slice(ledger, func(i, j int) bool { return ledger[i].Seq < ledger[j].Seq })
		d.votes[v.ElectionID] = ledger
		return nil
	})
}

func (r voteRepo) ListByElection(ctx context.Context, electionID string) ([]*models.Vote, error) {
	var out []*models.Vote
	err := r.s.locked("votes.ListByElection", func(d *state) error {
		for _, v := range d.votes[electionID] {
			v := v
			out = append(out, &v)
		}
		return nil
	})
	return out, err
}

// Tamper overwrites a stored vote in place. It exists so that chain
// verification can be tested against a corrupted ledger.
func (s *Store) Tamper(electionID string, seq int64, mutate func(v *models.Vote)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger := s.data.votes[electionID]
	for i := range ledger {
		if ledger[i].Seq == seq {
			mutate(&ledger[i])
			return true
		}
	}
	return false
}
