// internal/service/strategy_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/storecoach-kr/storecoach-backend/internal/cache"
	"github.com/storecoach-kr/storecoach-backend/internal/config"
	"github.com/storecoach-kr/storecoach-backend/internal/domain"
	"github.com/storecoach-kr/storecoach-backend/internal/engine/strategy"
	"github.com/storecoach-kr/storecoach-backend/internal/repository"
	"github.com/storecoach-kr/storecoach-backend/pkg/numeric"
	"github.com/storecoach-kr/storecoach-backend/pkg/timeutil"
)

// Strategy windows the classifier accepts.
var strategyWindows = map[int]bool{7: true, 14: true, 30: true}

// StrategyService runs the daily coaching loop: collect drop signals,
// classify causes, serve the strategy card and manage the mission lifecycle.
type StrategyService struct {
	sales     repository.SalesRepository
	master    repository.MasterRepository
	missions  repository.MissionRepository
	analytics *AnalyticsService
	finance   *FinanceService
	cfg       config.AnalyticsConfig
	clock     timeutil.Clock
	memo      cache.Memoizer
}

func NewStrategyService(sales repository.SalesRepository, master repository.MasterRepository, missions repository.MissionRepository, analytics *AnalyticsService, finance *FinanceService, cfg config.AnalyticsConfig, clock timeutil.Clock, memo cache.Memoizer) *StrategyService {
	if memo == nil {
		memo = cache.NewNoopMemoizer()
	}
	return &StrategyService{
		sales:     sales,
		master:    master,
		missions:  missions,
		analytics: analytics,
		finance:   finance,
		cfg:       cfg,
		clock:     clock,
		memo:      memo,
	}
}

// Signals collects the drop-signal bundle for the window ending at refDate.
// ok is false when either window has no sales data.
func (s *StrategyService) Signals(ctx context.Context, storeID int64, refDate time.Time, windowDays int) (strategy.Signals, bool, error) {
	if windowDays == 0 {
		windowDays = s.cfg.StrategyWindowDays
	}
	if !strategyWindows[windowDays] {
		return strategy.Signals{}, false, domain.NewValidationError("window_days", windowDays, "must be 7, 14 or 30")
	}

	today := timeutil.DateOf(s.clock.NowKST())
	ref := timeutil.DateOf(refDate)
	if ref.After(today) {
		ref = today
	}

	start := ref.AddDate(0, 0, -(2*windowDays - 1))
	rows, err := s.sales.BestAvailableDailySales(ctx, storeID, &start, &ref)
	if err != nil {
		log.Warn().Err(err).Msg("strategy: daily sales load failed")
		return strategy.Signals{}, false, nil
	}

	items := s.itemSales(ctx, storeID, start, ref)

	menuCosts, _ := s.analytics.MenuCosts(ctx, storeID)
	highCogs := 0
	var contributionSum float64
	for _, mc := range menuCosts {
		if mc.IsHighCost {
			highCogs++
		}
		contributionSum += mc.Contribution
	}
	avgContribution := 0.0
	if len(menuCosts) > 0 {
		avgContribution = numeric.Round2(contributionSum / float64(len(menuCosts)))
	}

	signals, ok := strategy.CollectSignals(strategy.SignalInputs{
		RefDate:           ref,
		WindowDays:        windowDays,
		Sales:             rows,
		Items:             items,
		HighCogsMenuCount: highCogs,
		AvgContribution:   avgContribution,
		BreakEvenGapRatio: s.breakEvenGapRatio(ctx, storeID, ref),
	})
	return signals, ok, nil
}

// itemSales resolves the window's sold items to menu names.
func (s *StrategyService) itemSales(ctx context.Context, storeID int64, start, end time.Time) []strategy.ItemSale {
	items, err := s.sales.ListDailySalesItems(ctx, storeID, start, end)
	if err != nil {
		log.Warn().Err(err).Msg("strategy: sales items load failed")
		return nil
	}
	menus, err := s.master.ListMenus(ctx, storeID)
	if err != nil {
		log.Warn().Err(err).Msg("strategy: menus load failed")
		return nil
	}
	nameByID := make(map[int64]string, len(menus))
	for _, m := range menus {
		nameByID[m.ID] = m.Name
	}

	out := make([]strategy.ItemSale, 0, len(items))
	for _, item := range items {
		name, ok := nameByID[item.MenuID]
		if !ok {
			continue
		}
		out = append(out, strategy.ItemSale{Date: item.Date, MenuName: name, Qty: item.Qty})
	}
	return out
}

// breakEvenGapRatio projects the month's pace against its break-even point.
// Undefined positions report 0; the signal collector substitutes 1.0.
func (s *StrategyService) breakEvenGapRatio(ctx context.Context, storeID int64, ref time.Time) float64 {
	analysis, _ := s.finance.BreakEven(ctx, storeID, ref.Year(), int(ref.Month()))
	if analysis.BreakEvenSales <= 0 || ref.Day() == 0 {
		return 0
	}
	expected := float64(analysis.MonthlySales) / float64(ref.Day()) * 30
	return expected / float64(analysis.BreakEvenSales)
}

// TodayCard classifies today's causes and picks the primary strategy card.
// Insufficient data falls back to the generic diagnosis card.
func (s *StrategyService) TodayCard(ctx context.Context, storeID int64) (strategy.Card, error) {
	today := timeutil.DateOf(s.clock.NowKST())
	signals, ok, err := s.Signals(ctx, storeID, today, s.cfg.StrategyWindowDays)
	if err != nil {
		return strategy.Card{}, err
	}
	if !ok {
		return strategy.PickPrimary(nil, strategy.Signals{}), nil
	}
	return strategy.PickPrimary(strategy.ClassifyCauses(signals), signals), nil
}

// MissionDetail is a mission with its checklist.
type MissionDetail struct {
	Mission domain.Mission       `json:"mission"`
	Tasks   []domain.MissionTask `json:"tasks"`
}

// CreateTodayMission materializes today's card into an active mission. The
// existing active mission is returned untouched when one is already open.
func (s *StrategyService) CreateTodayMission(ctx context.Context, storeID int64) (*MissionDetail, error) {
	today := timeutil.DateOf(s.clock.NowKST())

	if existing, err := s.missions.GetActiveMission(ctx, storeID, today); err == nil {
		return s.detail(ctx, existing)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("error loading active mission: %w", err)
	}

	card, err := s.TodayCard(ctx, storeID)
	if err != nil {
		return nil, err
	}

	reason, err := json.Marshal(card.ReasonBullets)
	if err != nil {
		return nil, fmt.Errorf("error encoding mission reason: %w", err)
	}

	mission := domain.Mission{
		StoreID:     storeID,
		MissionDate: today,
		Status:      domain.MissionStatusActive,
		CauseType:   card.CauseType,
		Title:       card.Title,
		ReasonJSON:  string(reason),
		CTAPage:     card.CTAPage,
	}
	templates := strategy.ChecklistTemplate(card.CauseType)
	tasks := make([]domain.MissionTask, 0, len(templates))
	for _, tpl := range templates {
		tasks = append(tasks, domain.MissionTask{Order: tpl.Order, Title: tpl.Title})
	}

	missionID, err := s.missions.CreateMission(ctx, mission, tasks)
	if err != nil {
		return nil, fmt.Errorf("error creating mission: %w", err)
	}
	s.bump(ctx, storeID, tableMissions, tableMissionTasks)

	created, err := s.missions.GetMission(ctx, missionID)
	if err != nil {
		return nil, fmt.Errorf("error loading mission: %w", err)
	}
	return s.detail(ctx, created)
}

// CompleteMission marks an active mission completed at now.
func (s *StrategyService) CompleteMission(ctx context.Context, storeID, missionID int64) error {
	return s.closeMission(ctx, storeID, missionID, domain.MissionStatusCompleted)
}

// AbandonMission marks an active mission abandoned.
func (s *StrategyService) AbandonMission(ctx context.Context, storeID, missionID int64) error {
	return s.closeMission(ctx, storeID, missionID, domain.MissionStatusAbandoned)
}

func (s *StrategyService) closeMission(ctx context.Context, storeID, missionID int64, status string) error {
	mission, err := s.missions.GetMission(ctx, missionID)
	if err != nil {
		return fmt.Errorf("error loading mission: %w", err)
	}
	if mission.StoreID != storeID {
		return repository.ErrNotFound
	}
	if mission.Status != domain.MissionStatusActive {
		return domain.NewValidationError("mission_id", missionID, "mission is not active")
	}

	var completedAt *time.Time
	if status == domain.MissionStatusCompleted {
		now := s.clock.NowKST()
		completedAt = &now
	}
	if err := s.missions.UpdateMissionStatus(ctx, missionID, status, completedAt); err != nil {
		return fmt.Errorf("error updating mission: %w", err)
	}
	s.bump(ctx, storeID, tableMissions)
	return nil
}

// SetTaskDone toggles one checklist item of the store's mission.
func (s *StrategyService) SetTaskDone(ctx context.Context, storeID, missionID, taskID int64, done bool) error {
	mission, err := s.missions.GetMission(ctx, missionID)
	if err != nil {
		return fmt.Errorf("error loading mission: %w", err)
	}
	if mission.StoreID != storeID {
		return repository.ErrNotFound
	}
	if err := s.missions.SetTaskDone(ctx, taskID, done); err != nil {
		return fmt.Errorf("error updating task: %w", err)
	}
	s.bump(ctx, storeID, tableMissionTasks)
	return nil
}

// GetMission returns one mission with its checklist.
func (s *StrategyService) GetMission(ctx context.Context, storeID, missionID int64) (*MissionDetail, error) {
	mission, err := s.missions.GetMission(ctx, missionID)
	if err != nil {
		return nil, fmt.Errorf("error loading mission: %w", err)
	}
	if mission.StoreID != storeID {
		return nil, repository.ErrNotFound
	}
	return s.detail(ctx, mission)
}

// ListMissions returns the store's recent missions, newest first.
func (s *StrategyService) ListMissions(ctx context.Context, storeID int64, limit int) ([]domain.Mission, error) {
	if limit <= 0 {
		limit = 30
	}
	missions, err := s.missions.ListMissions(ctx, storeID, limit)
	if err != nil {
		log.Warn().Err(err).Msg("strategy: missions load failed")
		return []domain.Mission{}, nil
	}
	return missions, nil
}

// MissionEffect compares sales around a completed mission. Returns nil until
// three after-days have passed.
func (s *StrategyService) MissionEffect(ctx context.Context, storeID, missionID int64) (*strategy.MissionEffect, error) {
	mission, err := s.missions.GetMission(ctx, missionID)
	if err != nil {
		return nil, fmt.Errorf("error loading mission: %w", err)
	}
	if mission.StoreID != storeID {
		return nil, repository.ErrNotFound
	}
	if mission.Status != domain.MissionStatusCompleted || mission.CompletedAt == nil {
		return nil, nil
	}

	completed := timeutil.DateOf(*mission.CompletedAt)
	start := completed.AddDate(0, 0, -7)
	end := completed.AddDate(0, 0, 7)
	rows, err := s.sales.BestAvailableDailySales(ctx, storeID, &start, &end)
	if err != nil {
		log.Warn().Err(err).Msg("strategy: daily sales load failed")
		return nil, nil
	}

	return strategy.CompareMissionEffect(*mission.CompletedAt, s.clock.NowKST(), rows), nil
}

func (s *StrategyService) detail(ctx context.Context, mission *domain.Mission) (*MissionDetail, error) {
	tasks, err := s.missions.ListTasks(ctx, mission.ID)
	if err != nil {
		log.Warn().Err(err).Msg("strategy: tasks load failed")
		tasks = []domain.MissionTask{}
	}
	return &MissionDetail{Mission: *mission, Tasks: tasks}, nil
}

func (s *StrategyService) bump(ctx context.Context, storeID int64, tables ...string) {
	if err := s.memo.BumpVersions(ctx, storeID, tables...); err != nil {
		log.Warn().Err(err).Msg("strategy: version bump failed")
	}
}
