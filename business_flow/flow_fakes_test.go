package businessflow

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fixnet/fixnet/models"
	"github.com/fixnet/fixnet/utils"
)

// In-memory fakes for the repository interfaces so the flows can be tested
// without a database.

type notifiedStatusChange struct {
	ticketID     string
	oldStatus    models.RepairStatus
	newStatus    models.RepairStatus
	customerName string
}

type fakeNotifier struct {
	mu            sync.Mutex
	ok            bool
	newTickets    []string
	statusChanges []notifiedStatusChange
	contacts      []string
}

func (n *fakeNotifier) SendNewTicketNotification(ctx context.Context, req *models.RepairRequest) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.newTickets = append(n.newTickets, req.TicketID)
	return n.ok
}

func (n *fakeNotifier) SendStatusUpdateNotification(ctx context.Context, ticketID string, oldStatus, newStatus models.RepairStatus, customerName string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statusChanges = append(n.statusChanges, notifiedStatusChange{ticketID, oldStatus, newStatus, customerName})
	return n.ok
}

func (n *fakeNotifier) SendContactMessageNotification(ctx context.Context, msg *models.ContactMessage) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.contacts = append(n.contacts, msg.UUID.String())
	return n.ok
}

type fakeRepairRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[string]*models.RepairRequest

	saveErr   error
	lookupErr error
	listErr   error
	countErr  error
	updateErr error

	// staleWrites makes every conditional update miss, as if another writer
	// always got to the row first
	staleWrites bool
}

func newFakeRepairRepo() *fakeRepairRepo {
	return &fakeRepairRepo{rows: make(map[string]*models.RepairRequest)}
}

func (r *fakeRepairRepo) Save(ctx context.Context, entity *models.RepairRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	if entity.ID == 0 {
		r.nextID++
		entity.ID = r.nextID
	}
	cp := *entity
	r.rows[entity.TicketID] = &cp
	return nil
}

func (r *fakeRepairRepo) SaveBatch(ctx context.Context, entities []*models.RepairRequest) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeRepairRepo) ByID(ctx context.Context, id uint) (*models.RepairRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepairRepo) ByTicketID(ctx context.Context, ticketID string) (*models.RepairRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	row, ok := r.rows[ticketID]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func matchRepairFilter(row *models.RepairRequest, filter models.RepairRequestFilter) bool {
	if filter.Status != nil && row.Status != *filter.Status {
		return false
	}
	if filter.Search != nil {
		needle := strings.ToLower(*filter.Search)
		haystack := strings.ToLower(strings.Join([]string{
			row.CustomerName, row.CustomerEmail, row.CustomerPhone,
			row.TicketID, row.DeviceBrand, row.DeviceModel, row.SpecificIssue,
		}, "\x00"))
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

func (r *fakeRepairRepo) ByFilter(ctx context.Context, filter models.RepairRequestFilter, orderBy string, limit, offset int) ([]*models.RepairRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*models.RepairRequest
	for _, row := range r.rows {
		if matchRepairFilter(row, filter) {
			cp := *row
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRepairRepo) Count(ctx context.Context, filter models.RepairRequestFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return 0, r.countErr
	}
	var n int64
	for _, row := range r.rows {
		if matchRepairFilter(row, filter) {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepairRepo) Exists(ctx context.Context, filter models.RepairRequestFilter) (bool, error) {
	n, err := r.Count(ctx, filter)
	return n > 0, err
}

func (r *fakeRepairRepo) UpdateFields(ctx context.Context, ticketID string, seenUpdatedAt time.Time, fields map[string]any) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return 0, r.updateErr
	}
	if r.staleWrites {
		return 0, nil
	}
	row, ok := r.rows[ticketID]
	if !ok || !row.UpdatedAt.Equal(seenUpdatedAt) {
		return 0, nil
	}
	for k, v := range fields {
		switch k {
		case "status":
			row.Status = v.(models.RepairStatus)
		case "priority":
			row.Priority = v.(models.RepairPriority)
		case "notes":
			s := v.(string)
			row.Notes = &s
		case "assigned_technician":
			s := v.(string)
			row.AssignedTechnician = &s
		case "estimated_cost":
			c := v.(float64)
			row.EstimatedCost = &c
		case "actual_cost":
			c := v.(float64)
			row.ActualCost = &c
		case "estimated_completion":
			at := v.(time.Time)
			row.EstimatedCompletion = &at
		case "completed_at":
			at := v.(time.Time)
			row.CompletedAt = &at
		case "updated_at":
			row.UpdatedAt = v.(time.Time)
		}
	}
	return 1, nil
}

func (r *fakeRepairRepo) DeleteByTicketID(ctx context.Context, ticketID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[ticketID]; !ok {
		return 0, nil
	}
	delete(r.rows, ticketID)
	return 1, nil
}

func (r *fakeRepairRepo) StatusCounts(ctx context.Context) (map[models.RepairStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[models.RepairStatus]int64)
	for _, row := range r.rows {
		counts[row.Status]++
	}
	return counts, nil
}

func (r *fakeRepairRepo) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.rows {
		if !row.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepairRepo) CompletedRevenue(ctx context.Context) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, row := range r.rows {
		if row.Status == models.StatusCompleted && row.ActualCost != nil {
			sum += *row.ActualCost
		}
	}
	return sum, nil
}

type fakeContactRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[string]*models.ContactMessage

	saveErr error
	listErr error
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{rows: make(map[string]*models.ContactMessage)}
}

func (r *fakeContactRepo) Save(ctx context.Context, entity *models.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	if entity.ID == 0 {
		r.nextID++
		entity.ID = r.nextID
	}
	cp := *entity
	r.rows[entity.UUID.String()] = &cp
	return nil
}

func (r *fakeContactRepo) SaveBatch(ctx context.Context, entities []*models.ContactMessage) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeContactRepo) ByID(ctx context.Context, id uint) (*models.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeContactRepo) ByUUID(ctx context.Context, uuidStr string) (*models.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[uuidStr]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func matchContactFilter(row *models.ContactMessage, filter models.ContactMessageFilter) bool {
	if filter.IsRead != nil && utils.IsTrue(row.IsRead) != *filter.IsRead {
		return false
	}
	return true
}

func (r *fakeContactRepo) ByFilter(ctx context.Context, filter models.ContactMessageFilter, orderBy string, limit, offset int) ([]*models.ContactMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*models.ContactMessage
	for _, row := range r.rows {
		if matchContactFilter(row, filter) {
			cp := *row
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeContactRepo) Count(ctx context.Context, filter models.ContactMessageFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, row := range r.rows {
		if matchContactFilter(row, filter) {
			n++
		}
	}
	return n, nil
}

func (r *fakeContactRepo) Exists(ctx context.Context, filter models.ContactMessageFilter) (bool, error) {
	n, err := r.Count(ctx, filter)
	return n > 0, err
}

func (r *fakeContactRepo) MarkRead(ctx context.Context, uuidStr string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[uuidStr]
	if !ok {
		return 0, nil
	}
	row.IsRead = utils.ToPtr(true)
	return 1, nil
}

func (r *fakeContactRepo) DeleteByUUID(ctx context.Context, uuidStr string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[uuidStr]; !ok {
		return 0, nil
	}
	delete(r.rows, uuidStr)
	return 1, nil
}

type fakeAdminRepo struct {
	mu         sync.Mutex
	nextID     uint
	byEmail    map[string]*models.Admin
	lastLogins map[uint]time.Time

	lookupErr    error
	saveErr      error
	lastLoginErr error
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{
		byEmail:    make(map[string]*models.Admin),
		lastLogins: make(map[uint]time.Time),
	}
}

func (r *fakeAdminRepo) Save(ctx context.Context, entity *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	if entity.ID == 0 {
		r.nextID++
		entity.ID = r.nextID
	}
	cp := *entity
	r.byEmail[entity.Email] = &cp
	return nil
}

func (r *fakeAdminRepo) SaveBatch(ctx context.Context, entities []*models.Admin) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeAdminRepo) ByID(ctx context.Context, id uint) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byEmail {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAdminRepo) ByUUID(ctx context.Context, uuidStr string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byEmail {
		if a.UUID.String() == uuidStr {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAdminRepo) ByEmail(ctx context.Context, email string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	a, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAdminRepo) ByFilter(ctx context.Context, filter models.AdminFilter, orderBy string, limit, offset int) ([]*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Admin
	for _, a := range r.byEmail {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeAdminRepo) Count(ctx context.Context, filter models.AdminFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byEmail)), nil
}

func (r *fakeAdminRepo) Exists(ctx context.Context, filter models.AdminFilter) (bool, error) {
	n, err := r.Count(ctx, filter)
	return n > 0, err
}

func (r *fakeAdminRepo) UpdateLastLogin(ctx context.Context, adminID uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastLoginErr != nil {
		return r.lastLoginErr
	}
	r.lastLogins[adminID] = at
	return nil
}
