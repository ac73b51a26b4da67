package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"courtside/internal/domain/group"
	"courtside/internal/domain/period"
	"courtside/internal/domain/player"
	"courtside/internal/domain/student"
)

// StudentStoreForRoster defines the student store interface needed by roster orchestrators.
type StudentStoreForRoster interface {
	GetByID(ctx context.Context, id string) (student.Student, error)
	Save(ctx context.Context, s student.Student) error
}

// GroupStoreForRoster defines the group store interface needed by roster orchestrators.
type GroupStoreForRoster interface {
	GetByID(ctx context.Context, id string) (group.Group, error)
	Save(ctx context.Context, g group.Group) error
	SaveSession(ctx context.Context, s group.Session) error
}

// PeriodStoreForRoster defines the period store interface needed by roster orchestrators.
type PeriodStoreForRoster interface {
	GetByID(ctx context.Context, id string) (period.Period, error)
	Save(ctx context.Context, p period.Period) error
}

// PlayerStoreForRoster defines the player store interface needed by roster orchestrators.
type PlayerStoreForRoster interface {
	GetByID(ctx context.Context, id string) (player.Player, error)
	Save(ctx context.Context, p player.Player) error
	Delete(ctx context.Context, id string) error
	GetByStudentAndPeriod(ctx context.Context, studentID, periodID string) (player.Player, error)
}

var ErrAlreadyEnrolled = errors.New("student is already enrolled in this period")

// --- Create Group ---

// CreateGroupInput carries input for the create group orchestrator.
type CreateGroupInput struct {
	Name        string
	Description string
}

// CreateGroupDeps holds dependencies for CreateGroup.
type CreateGroupDeps struct {
	GroupStore GroupStoreForRoster
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteCreateGroup creates a coaching group.
// PRE: Name must be non-empty
// POST: Group created with generated ID
func ExecuteCreateGroup(ctx context.Context, input CreateGroupInput, deps CreateGroupDeps) (group.Group, error) {
	g := group.Group{
		ID:          deps.GenerateID(),
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   deps.Now(),
	}
	if err := g.Validate(); err != nil {
		return group.Group{}, err
	}
	if err := deps.GroupStore.Save(ctx, g); err != nil {
		return group.Group{}, err
	}
	slog.Info("roster_event", "event", "group_created", "group_id", g.ID, "name", g.Name)
	return g, nil
}

// --- Create Group Session ---

// CreateSessionInput carries input for the create session orchestrator.
type CreateSessionInput struct {
	GroupID   string
	DayOfWeek time.Weekday
	StartTime string
	EndTime   string
}

// CreateSessionDeps holds dependencies for CreateSession.
type CreateSessionDeps struct {
	GroupStore GroupStoreForRoster
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteCreateSession adds a weekly time slot to a group.
// PRE: GroupID refers to an existing group; times are HH:MM with start < end
// POST: Session created with generated ID
func ExecuteCreateSession(ctx context.Context, input CreateSessionInput, deps CreateSessionDeps) (group.Session, error) {
	if _, err := deps.GroupStore.GetByID(ctx, input.GroupID); err != nil {
		return group.Session{}, err
	}

	s := group.Session{
		ID:        deps.GenerateID(),
		GroupID:   input.GroupID,
		DayOfWeek: input.DayOfWeek,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		CreatedAt: deps.Now(),
	}
	if err := s.Validate(); err != nil {
		return group.Session{}, err
	}
	if err := deps.GroupStore.SaveSession(ctx, s); err != nil {
		return group.Session{}, err
	}
	slog.Info("roster_event", "event", "session_created", "session_id", s.ID, "group_id", s.GroupID)
	return s, nil
}

// --- Create Teaching Period ---

// CreatePeriodInput carries input for the create period orchestrator.
type CreatePeriodInput struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// CreatePeriodDeps holds dependencies for CreatePeriod.
type CreatePeriodDeps struct {
	PeriodStore PeriodStoreForRoster
	GenerateID  func() string
	Now         func() time.Time
}

// ExecuteCreatePeriod creates a teaching period.
// PRE: Name non-empty, EndDate after StartDate
// POST: Period created active with generated ID
func ExecuteCreatePeriod(ctx context.Context, input CreatePeriodInput, deps CreatePeriodDeps) (period.Period, error) {
	p := period.Period{
		ID:        deps.GenerateID(),
		Name:      input.Name,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		IsActive:  true,
		CreatedAt: deps.Now(),
	}
	if err := p.Validate(); err != nil {
		return period.Period{}, err
	}
	if err := deps.PeriodStore.Save(ctx, p); err != nil {
		return period.Period{}, err
	}
	slog.Info("roster_event", "event", "period_created", "period_id", p.ID, "name", p.Name)
	return p, nil
}

// --- Enrol Player ---

// EnrolPlayerInput carries input for the enrol player orchestrator. Either
// StudentID points at an existing student, or StudentName (plus optional
// contact details) creates one.
type EnrolPlayerInput struct {
	StudentID    string
	StudentName  string
	ContactEmail string
	DateOfBirth  time.Time
	GroupID      string
	SessionID    string
	PeriodID     string
	CoachID      string
}

// EnrolPlayerDeps holds dependencies for EnrolPlayer.
type EnrolPlayerDeps struct {
	StudentStore StudentStoreForRoster
	PlayerStore  PlayerStoreForRoster
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteEnrolPlayer enrols a student in a group for a teaching period,
// creating the student record first when none exists.
// PRE: GroupID, PeriodID and CoachID are non-empty
// POST: Player created; student created when StudentID was empty
// INVARIANT: One enrolment per student per period
func ExecuteEnrolPlayer(ctx context.Context, input EnrolPlayerInput, deps EnrolPlayerDeps) (player.Player, error) {
	studentID := input.StudentID
	if studentID == "" {
		s := student.Student{
			ID:           deps.GenerateID(),
			Name:         input.StudentName,
			ContactEmail: input.ContactEmail,
			DateOfBirth:  input.DateOfBirth,
			CreatedAt:    deps.Now(),
		}
		if err := s.Validate(); err != nil {
			return player.Player{}, err
		}
		if err := deps.StudentStore.Save(ctx, s); err != nil {
			return player.Player{}, err
		}
		studentID = s.ID
		slog.Info("roster_event", "event", "student_created", "student_id", s.ID)
	} else if _, err := deps.StudentStore.GetByID(ctx, studentID); err != nil {
		return player.Player{}, err
	}

	if _, err := deps.PlayerStore.GetByStudentAndPeriod(ctx, studentID, input.PeriodID); err == nil {
		return player.Player{}, ErrAlreadyEnrolled
	}

	p := player.Player{
		ID:        deps.GenerateID(),
		StudentID: studentID,
		GroupID:   input.GroupID,
		SessionID: input.SessionID,
		PeriodID:  input.PeriodID,
		CoachID:   input.CoachID,
		CreatedAt: deps.Now(),
	}
	if err := p.Validate(); err != nil {
		return player.Player{}, err
	}
	if err := deps.PlayerStore.Save(ctx, p); err != nil {
		return player.Player{}, err
	}

	slog.Info("roster_event", "event", "player_enrolled", "player_id", p.ID, "student_id", p.StudentID, "group_id", p.GroupID, "period_id", p.PeriodID)
	return p, nil
}

// --- Reassign Player ---

// ReassignPlayerInput carries input for the reassign player orchestrator.
type ReassignPlayerInput struct {
	PlayerID  string
	GroupID   string
	SessionID string
	CoachID   string
}

// ReassignPlayerDeps holds dependencies for ReassignPlayer.
type ReassignPlayerDeps struct {
	PlayerStore PlayerStoreForRoster
}

// ExecuteReassignPlayer moves a player to a different group, session or coach
// within the same period.
// PRE: PlayerID refers to an existing player
// POST: Player updated; empty input fields leave the current value in place
func ExecuteReassignPlayer(ctx context.Context, input ReassignPlayerInput, deps ReassignPlayerDeps) (player.Player, error) {
	p, err := deps.PlayerStore.GetByID(ctx, input.PlayerID)
	if err != nil {
		return player.Player{}, err
	}

	if input.GroupID != "" {
		p.GroupID = input.GroupID
	}
	if input.SessionID != "" {
		p.SessionID = input.SessionID
	}
	if input.CoachID != "" {
		p.CoachID = input.CoachID
	}

	if err := p.Validate(); err != nil {
		return player.Player{}, err
	}
	if err := deps.PlayerStore.Save(ctx, p); err != nil {
		return player.Player{}, err
	}

	slog.Info("roster_event", "event", "player_reassigned", "player_id", p.ID, "group_id", p.GroupID, "coach_id", p.CoachID)
	return p, nil
}

// --- Remove Player ---

// RemovePlayerInput carries input for the remove player orchestrator.
type RemovePlayerInput struct {
	PlayerID string
}

// RemovePlayerDeps holds dependencies for RemovePlayer.
type RemovePlayerDeps struct {
	PlayerStore PlayerStoreForRoster
}

// ExecuteRemovePlayer removes a player's enrolment. The student record stays.
// PRE: PlayerID refers to an existing player
// POST: Player is removed
func ExecuteRemovePlayer(ctx context.Context, input RemovePlayerInput, deps RemovePlayerDeps) error {
	if _, err := deps.PlayerStore.GetByID(ctx, input.PlayerID); err != nil {
		return err
	}
	if err := deps.PlayerStore.Delete(ctx, input.PlayerID); err != nil {
		return err
	}
	slog.Info("roster_event", "event", "player_removed", "player_id", input.PlayerID)
	return nil
}
