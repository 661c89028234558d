package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fixnet/fixnet/app/dto"
	"github.com/fixnet/fixnet/app/services"
	"github.com/fixnet/fixnet/models"
	"github.com/fixnet/fixnet/repository"
	"github.com/fixnet/fixnet/utils"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
)

// RepairRequestFlow defines the public submission and admin management
// operations for repair requests
type RepairRequestFlow interface {
	Create(ctx context.Context, req *dto.CreateRepairRequestRequest, metadata *ClientMetadata) (*dto.CreateRepairRequestResponse, error)
	List(ctx context.Context, req *dto.ListRepairRequestsRequest, metadata *ClientMetadata) (*dto.ListRepairRequestsResponse, error)
	Get(ctx context.Context, ticketID string) (*dto.RepairRequestDTO, error)
	UpdateStatus(ctx context.Context, req *dto.UpdateStatusRequest, metadata *ClientMetadata) error
	// Update applies a partial patch; modified is false when the patch was
	// empty or the row changed underneath the caller
	Update(ctx context.Context, ticketID string, req *dto.UpdateRepairRequestRequest, metadata *ClientMetadata) (modified bool, err error)
	Delete(ctx context.Context, ticketID string) error
	DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error)
	ExportExcel(ctx context.Context, req *dto.ListRepairRequestsRequest) (filename string, data []byte, err error)
}

// RepairRequestFlowImpl implements RepairRequestFlow
type RepairRequestFlowImpl struct {
	repairRepo repository.RepairRequestRepository
	notifier   services.NotificationService
	cache      *redis.Client // optional, nil disables stats caching
	statsTTL   time.Duration
}

const statsCacheKey = "fixnet:dashboard:stats"

func NewRepairRequestFlow(repairRepo repository.RepairRequestRepository, notifier services.NotificationService, cache *redis.Client, statsTTL time.Duration) RepairRequestFlow {
	return &RepairRequestFlowImpl{
		repairRepo: repairRepo,
		notifier:   notifier,
		cache:      cache,
		statsTTL:   statsTTL,
	}
}

// Create stores a public repair submission and announces it to operators
func (f *RepairRequestFlowImpl) Create(ctx context.Context, req *dto.CreateRepairRequestRequest, metadata *ClientMetadata) (*dto.CreateRepairRequestResponse, error) {
	if !req.GDPRConsent {
		return nil, NewBusinessError("GDPR_CONSENT_REQUIRED", "GDPR consent is required to submit a repair request", ErrGDPRConsentRequired)
	}

	urgency := req.Urgency
	if urgency == "" {
		urgency = models.UrgencyNormal
	}

	now := utils.UTCNow()
	eta := now.Add(models.TurnaroundForUrgency(urgency))

	r := models.RepairRequest{
		UUID:                uuid.New(),
		TicketID:            models.NewTicketID(now),
		CustomerName:        strings.TrimSpace(req.CustomerName),
		CustomerEmail:       strings.TrimSpace(req.CustomerEmail),
		CustomerPhone:       strings.TrimSpace(req.CustomerPhone),
		DeviceBrand:         strings.TrimSpace(req.DeviceBrand),
		DeviceModel:         strings.TrimSpace(req.DeviceModel),
		IssueCategory:       strings.TrimSpace(req.IssueCategory),
		SpecificIssue:       strings.TrimSpace(req.SpecificIssue),
		Description:         req.Description,
		Urgency:             urgency,
		PickupAddress:       strings.TrimSpace(req.PickupAddress),
		PickupTime:          req.PickupTime,
		GDPRConsent:         true,
		Status:              models.StatusNew,
		Priority:            models.PriorityForUrgency(urgency),
		EstimatedCompletion: &eta,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := f.repairRepo.Save(ctx, &r); err != nil {
		return nil, NewBusinessError("REPAIR_REQUEST_SAVE_FAILED", "Failed to save repair request", err)
	}

	// Notify operators (best-effort)
	if f.notifier != nil {
		if ok := f.notifier.SendNewTicketNotification(ctx, &r); !ok {
			log.Printf("[WARN] new ticket notification not delivered for %s", r.TicketID)
		}
	}

	return &dto.CreateRepairRequestResponse{
		TicketID: r.TicketID,
		Data:     ToRepairRequestDTO(r),
	}, nil
}

// parseStatusFilter maps the query value to an optional status filter.
// Empty and "all" disable the filter; unknown values are rejected.
func parseStatusFilter(status string) (*models.RepairStatus, error) {
	if status == "" || strings.EqualFold(status, "all") {
		return nil, nil
	}
	s := models.RepairStatus(status)
	if !s.IsValid() {
		return nil, NewBusinessErrorf("INVALID_STATUS", "Unknown status value: %s", ErrInvalidStatus, status)
	}
	return &s, nil
}

// normalizePage clamps pagination parameters to the supported range
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = utils.DefaultPageSize
	}
	if limit > utils.MaxPageSize {
		limit = utils.MaxPageSize
	}
	return page, limit
}

// buildListFilter translates a list request into repository filter criteria
func buildListFilter(req *dto.ListRepairRequestsRequest) (models.RepairRequestFilter, error) {
	filter := models.RepairRequestFilter{}

	status, err := parseStatusFilter(req.Status)
	if err != nil {
		return filter, err
	}
	filter.Status = status

	if search := strings.TrimSpace(req.Search); search != "" {
		filter.Search = &search
	}
	return filter, nil
}

// List returns one page of repair requests, newest first, plus the total
// match count before pagination
func (f *RepairRequestFlowImpl) List(ctx context.Context, req *dto.ListRepairRequestsRequest, metadata *ClientMetadata) (*dto.ListRepairRequestsResponse, error) {
	filter, err := buildListFilter(req)
	if err != nil {
		return nil, err
	}

	page, limit := normalizePage(req.Page, req.Limit)
	offset := (page - 1) * limit

	total, err := f.repairRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("LIST_REPAIR_REQUESTS_FAILED", "Failed to count repair requests", err)
	}

	rows, err := f.repairRepo.ByFilter(ctx, filter, "created_at DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("LIST_REPAIR_REQUESTS_FAILED", "Failed to list repair requests", err)
	}

	items := make([]dto.RepairRequestDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, ToRepairRequestDTO(*r))
	}

	return &dto.ListRepairRequestsResponse{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// Get returns a single repair request by its public ticket identifier
func (f *RepairRequestFlowImpl) Get(ctx context.Context, ticketID string) (*dto.RepairRequestDTO, error) {
	r, err := f.repairRepo.ByTicketID(ctx, ticketID)
	if err != nil {
		return nil, NewBusinessError("REPAIR_REQUEST_LOOKUP_FAILED", "Failed to lookup repair request", err)
	}
	if r == nil {
		return nil, NewBusinessError("REPAIR_REQUEST_NOT_FOUND", "Repair request not found", ErrRepairRequestNotFound)
	}
	d := ToRepairRequestDTO(*r)
	return &d, nil
}

// UpdateStatus transitions a repair request to a new lifecycle state.
// Completing a request stamps completed_at; re-completing refreshes it. The
// stamp is never cleared by later transitions.
func (f *RepairRequestFlowImpl) UpdateStatus(ctx context.Context, req *dto.UpdateStatusRequest, metadata *ClientMetadata) error {
	newStatus := models.RepairStatus(req.Status)
	if !newStatus.IsValid() {
		return NewBusinessErrorf("INVALID_STATUS", "Unknown status value: %s", ErrInvalidStatus, req.Status)
	}

	current, err := f.repairRepo.ByTicketID(ctx, req.TicketID)
	if err != nil {
		return NewBusinessError("REPAIR_REQUEST_LOOKUP_FAILED", "Failed to lookup repair request", err)
	}
	if current == nil {
		return NewBusinessError("REPAIR_REQUEST_NOT_FOUND", "Repair request not found", ErrRepairRequestNotFound)
	}
	oldStatus := current.Status

	now := utils.UTCNow()
	fields := map[string]any{
		"status":     newStatus,
		"updated_at": now,
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if newStatus == models.StatusCompleted {
		fields["completed_at"] = now
	}

	rows, err := f.repairRepo.UpdateFields(ctx, req.TicketID, current.UpdatedAt, fields)
	if err != nil {
		return NewBusinessError("REPAIR_REQUEST_UPDATE_FAILED", "Failed to update repair request status", err)
	}
	if rows == 0 {
		return NewBusinessError("REPAIR_REQUEST_UPDATE_FAILED", "Repair request status was not updated", ErrUpdateConflict)
	}

	// Notify operators about the transition (best-effort)
	if f.notifier != nil {
		if ok := f.notifier.SendStatusUpdateNotification(ctx, req.TicketID, oldStatus, newStatus, current.CustomerName); !ok {
			log.Printf("[WARN] status update notification not delivered for %s", req.TicketID)
		}
	}

	return nil
}

// Update applies a partial patch to a repair request. No notification is sent
// for general edits.
func (f *RepairRequestFlowImpl) Update(ctx context.Context, ticketID string, req *dto.UpdateRepairRequestRequest, metadata *ClientMetadata) (bool, error) {
	patch, err := buildPatch(req)
	if err != nil {
		return false, err
	}

	current, err := f.repairRepo.ByTicketID(ctx, ticketID)
	if err != nil {
		return false, NewBusinessError("REPAIR_REQUEST_LOOKUP_FAILED", "Failed to lookup repair request", err)
	}
	if current == nil {
		return false, NewBusinessError("REPAIR_REQUEST_NOT_FOUND", "Repair request not found", ErrRepairRequestNotFound)
	}

	if patch.IsEmpty() {
		return false, nil
	}

	now := utils.UTCNow()
	fields := map[string]any{
		"updated_at": now,
	}
	if patch.Status != nil {
		fields["status"] = *patch.Status
		if *patch.Status == models.StatusCompleted {
			fields["completed_at"] = now
		}
	}
	if patch.Priority != nil {
		fields["priority"] = *patch.Priority
	}
	if patch.AssignedTechnician != nil {
		fields["assigned_technician"] = *patch.AssignedTechnician
	}
	if patch.EstimatedCost != nil {
		fields["estimated_cost"] = *patch.EstimatedCost
	}
	if patch.ActualCost != nil {
		fields["actual_cost"] = *patch.ActualCost
	}
	if patch.EstimatedCompletion != nil {
		fields["estimated_completion"] = *patch.EstimatedCompletion
	}
	if patch.Notes != nil {
		fields["notes"] = *patch.Notes
	}

	rows, err := f.repairRepo.UpdateFields(ctx, ticketID, current.UpdatedAt, fields)
	if err != nil {
		return false, NewBusinessError("REPAIR_REQUEST_UPDATE_FAILED", "Failed to update repair request", err)
	}
	return rows > 0, nil
}

// buildPatch validates the enum fields of a partial update
func buildPatch(req *dto.UpdateRepairRequestRequest) (models.RepairRequestPatch, error) {
	patch := models.RepairRequestPatch{
		AssignedTechnician:  req.AssignedTechnician,
		EstimatedCost:       req.EstimatedCost,
		ActualCost:          req.ActualCost,
		EstimatedCompletion: req.EstimatedCompletion,
		Notes:               req.Notes,
	}
	if req.Status != nil {
		s := models.RepairStatus(*req.Status)
		if !s.IsValid() {
			return patch, NewBusinessErrorf("INVALID_STATUS", "Unknown status value: %s", ErrInvalidStatus, *req.Status)
		}
		patch.Status = &s
	}
	if req.Priority != nil {
		p := models.RepairPriority(*req.Priority)
		if !p.IsValid() {
			return patch, NewBusinessErrorf("INVALID_PRIORITY", "Unknown priority value: %s", ErrInvalidPriority, *req.Priority)
		}
		patch.Priority = &p
	}
	return patch, nil
}

// Delete removes a repair request permanently
func (f *RepairRequestFlowImpl) Delete(ctx context.Context, ticketID string) error {
	rows, err := f.repairRepo.DeleteByTicketID(ctx, ticketID)
	if err != nil {
		return NewBusinessError("REPAIR_REQUEST_DELETE_FAILED", "Failed to delete repair request", err)
	}
	if rows == 0 {
		return NewBusinessError("REPAIR_REQUEST_NOT_FOUND", "Repair request not found", ErrRepairRequestNotFound)
	}
	return nil
}

// DashboardStats aggregates workload counters. The counters are a
// point-in-time snapshot; when a cache is configured the snapshot may lag by
// up to the configured TTL.
func (f *RepairRequestFlowImpl) DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	if f.cache != nil {
		if cached, err := f.cache.Get(ctx, statsCacheKey).Result(); err == nil {
			var stats dto.DashboardStatsResponse
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	counts, err := f.repairRepo.StatusCounts(ctx)
	if err != nil {
		return nil, NewBusinessError("DASHBOARD_STATS_FAILED", "Failed to aggregate status counts", err)
	}

	breakdown := make(map[string]int64, len(models.AllStatuses()))
	var total int64
	for _, s := range models.AllStatuses() {
		breakdown[string(s)] = counts[s]
		total += counts[s]
	}

	var active int64
	for _, s := range models.ActiveStatuses() {
		active += counts[s]
	}

	now := utils.UTCNow()
	today, err := f.repairRepo.CountCreatedSince(ctx, utils.StartOfDayUTC(now))
	if err != nil {
		return nil, NewBusinessError("DASHBOARD_STATS_FAILED", "Failed to count today's repair requests", err)
	}
	week, err := f.repairRepo.CountCreatedSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, NewBusinessError("DASHBOARD_STATS_FAILED", "Failed to count this week's repair requests", err)
	}
	revenue, err := f.repairRepo.CompletedRevenue(ctx)
	if err != nil {
		return nil, NewBusinessError("DASHBOARD_STATS_FAILED", "Failed to sum completed revenue", err)
	}

	stats := &dto.DashboardStatsResponse{
		StatusBreakdown: breakdown,
		TodayRequests:   today,
		WeekRequests:    week,
		TotalRevenue:    revenue,
		ActiveRequests:  active,
		TotalRequests:   total,
	}

	if f.cache != nil && f.statsTTL > 0 {
		if payload, err := json.Marshal(stats); err == nil {
			if err := f.cache.Set(ctx, statsCacheKey, payload, f.statsTTL).Err(); err != nil {
				log.Printf("[WARN] failed to cache dashboard stats: %v", err)
			}
		}
	}

	return stats, nil
}

// ExportExcel builds an xlsx workbook of the repair requests matching the
// same filters the listing endpoint accepts (without pagination)
func (f *RepairRequestFlowImpl) ExportExcel(ctx context.Context, req *dto.ListRepairRequestsRequest) (string, []byte, error) {
	filter, err := buildListFilter(req)
	if err != nil {
		return "", nil, err
	}

	rows, err := f.repairRepo.ByFilter(ctx, filter, "created_at DESC", 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("EXPORT_REPAIR_REQUESTS_FAILED", "Failed to fetch repair requests for export", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	sheet := "Repair Requests"
	xl.SetSheetName(xl.GetSheetName(0), sheet)

	header := []string{"ticket_id", "status", "priority", "customer_name", "customer_email", "customer_phone", "device_brand", "device_model", "issue_category", "specific_issue", "urgency", "assigned_technician", "estimated_cost", "actual_cost", "estimated_completion", "completed_at", "created_at", "updated_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)

	for ri, r := range rows {
		tech := ""
		if r.AssignedTechnician != nil {
			tech = *r.AssignedTechnician
		}
		estCost := ""
		if r.EstimatedCost != nil {
			estCost = fmt.Sprintf("%.2f", *r.EstimatedCost)
		}
		actCost := ""
		if r.ActualCost != nil {
			actCost = fmt.Sprintf("%.2f", *r.ActualCost)
		}
		eta := ""
		if r.EstimatedCompletion != nil {
			eta = r.EstimatedCompletion.UTC().Format(time.RFC3339)
		}
		completed := ""
		if r.CompletedAt != nil {
			completed = r.CompletedAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			r.TicketID,
			string(r.Status),
			string(r.Priority),
			r.CustomerName,
			r.CustomerEmail,
			r.CustomerPhone,
			r.DeviceBrand,
			r.DeviceModel,
			r.IssueCategory,
			r.SpecificIssue,
			r.Urgency,
			tech,
			estCost,
			actCost,
			eta,
			completed,
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.UpdatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	filename := fmt.Sprintf("repair_requests_%s.xlsx", utils.UTCNowFormat("2006-01-02"))
	return filename, buf.Bytes(), nil
}
