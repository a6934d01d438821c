package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/hellodap/dap-backend/internal/dto"
	"github.com/hellodap/dap-backend/internal/entity"
)

type memOnboardingRepo struct {
	records map[string]*entity.DeviceOnboarding
}

func newMemOnboardingRepo() *memOnboardingRepo {
	return &memOnboardingRepo{records: map[string]*entity.DeviceOnboarding{}}
}

func onboardingKey(userID uuid.UUID, deviceID, promptKey string) string {
	return userID.String() + "/" + deviceID + "/" + promptKey
}

func (r *memOnboardingRepo) Find(ctx context.Context, userID uuid.UUID, deviceID, promptKey string) (*entity.DeviceOnboarding, error) {
	record, ok := r.records[onboardingKey(userID, deviceID, promptKey)]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (r *memOnboardingRepo) Save(ctx context.Context, record *entity.DeviceOnboarding) error {
	copied := *record
	r.records[onboardingKey(record.UserID, record.DeviceID, record.PromptKey)] = &copied
	return nil
}

func (r *memOnboardingRepo) ListForDevice(ctx context.Context, userID uuid.UUID, deviceID string) ([]entity.DeviceOnboarding, error) {
	var out []entity.DeviceOnboarding
	for _, record := range r.records {
		if record.UserID == userID && record.DeviceID == deviceID {
			out = append(out, *record)
		}
	}
	return out, nil
}

func TestPromptStatesDefaultToVisible(t *testing.T) {
	svc := NewOnboardingService(newMemOnboardingRepo())
	userID := uuid.New()

	states, err := svc.PromptStates(context.Background(), userID, "device-1")
	if err != nil {
		t.Fatalf("PromptStates: %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("got %d prompts, want 2", len(states))
	}
	for _, state := range states {
		if !state.Visible || state.State != entity.OnboardingShow {
			t.Errorf("unanswered prompt %s should be visible/show, got %+v", state.PromptKey, state)
		}
	}
}

func TestRemindLaterKeepsPromptVisible(t *testing.T) {
	svc := NewOnboardingService(newMemOnboardingRepo())
	userID := uuid.New()

	state, err := svc.Apply(context.Background(), userID, dto.PromptActionRequest{
		DeviceID:  "device-1",
		PromptKey: entity.PromptInstallNudge,
		Action:    dto.PromptActionRemindLater,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !state.Visible || state.State != entity.OnboardingRemindLater {
		t.Errorf("remind_later should stay visible, got %+v", state)
	}
}

func TestNeverShowRetiresPrompt(t *testing.T) {
	repo := newMemOnboardingRepo()
	svc := NewOnboardingService(repo)
	userID := uuid.New()

	req := dto.PromptActionRequest{
		DeviceID:  "device-1",
		PromptKey: entity.PromptTutorial,
		Action:    dto.PromptActionNeverShow,
	}
	state, err := svc.Apply(context.Background(), userID, req)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if state.Visible {
		t.Error("never_show should hide the prompt")
	}

	// remind_later cannot resurrect a retired prompt.
	req.Action = dto.PromptActionRemindLater
	state, err = svc.Apply(context.Background(), userID, req)
	if err != nil {
		t.Fatalf("Apply after never_show: %v", err)
	}
	if state.Visible || state.State != entity.OnboardingNeverShow {
		t.Errorf("retired prompt came back: %+v", state)
	}

	// And the listing agrees.
	states, err := svc.PromptStates(context.Background(), userID, "device-1")
	if err != nil {
		t.Fatalf("PromptStates: %v", err)
	}
	for _, s := range states {
		if s.PromptKey == entity.PromptTutorial && s.Visible {
			t.Error("retired prompt listed as visible")
		}
	}
}

func TestPromptStateIsPerDevice(t *testing.T) {
	svc := NewOnboardingService(newMemOnboardingRepo())
	userID := uuid.New()

	if _, err := svc.Apply(context.Background(), userID, dto.PromptActionRequest{
		DeviceID:  "device-1",
		PromptKey: entity.PromptInstallNudge,
		Action:    dto.PromptActionNeverShow,
	}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	states, err := svc.PromptStates(context.Background(), userID, "device-2")
	if err != nil {
		t.Fatalf("PromptStates: %v", err)
	}
	for _, s := range states {
		if s.PromptKey == entity.PromptInstallNudge && !s.Visible {
			t.Error("state on one device leaked to another")
		}
	}
}

func TestApplyRejectsUnknownAction(t *testing.T) {
	svc := NewOnboardingService(newMemOnboardingRepo())

	_, err := svc.Apply(context.Background(), uuid.New(), dto.PromptActionRequest{
		DeviceID:  "device-1",
		PromptKey: entity.PromptTutorial,
		Action:    "dismiss",
	})
	if err == nil {
		t.Error("unknown action should be rejected")
	}
}
