package application

import (
	"fmt"
	"slices"

	"github.com/abhishek622/intellihire/pkg/model"
)

// manualTransitions lists the moves a company may make by hand. Every
// status may also move to rejected.
var manualTransitions = map[model.ApplicationStatus][]model.ApplicationStatus{
	model.ApplicationStatusApplied:  {model.ApplicationStatusInProgress},
	model.ApplicationStatusSelected: {model.ApplicationStatusFinalSelected},
}

// CanTransition reports whether a company may move an application from one
// status to another. Staying on the same status is always allowed.
func CanTransition(from, to model.ApplicationStatus) bool {
	if from == to || to == model.ApplicationStatusRejected {
		return true
	}
	return slices.Contains(manualTransitions[from], to)
}

// parseRoundResult checks the caller-supplied fields of a round submission.
func parseRoundResult(req model.RoundResultReq) (model.RoundResult, error) {
	outcome := model.RoundOutcome(req.Result)
	if outcome != model.RoundOutcomeSuccess && outcome != model.RoundOutcomeFailure {
		return model.RoundResult{}, fmt.Errorf("%w: got %q", ErrInvalidResult, req.Result)
	}
	if req.RoundNumber < 1 {
		return model.RoundResult{}, fmt.Errorf("%w: round number must be positive", ErrInvalidRound)
	}
	return model.RoundResult{
		RoundNumber: req.RoundNumber,
		InterviewID: req.InterviewID,
		Result:      outcome,
		Feedback:    req.Feedback,
	}, nil
}

// ApplyRoundResult records rr on app for a job with totalRounds rounds.
// app is left untouched when an error is returned.
func ApplyRoundResult(app *model.Application, totalRounds int, rr model.RoundResult) error {
	if app.Status != model.ApplicationStatusInProgress {
		return fmt.Errorf("%w: application is %s", ErrNotInProgress, app.Status)
	}
	if totalRounds > 0 && rr.RoundNumber > totalRounds {
		return fmt.Errorf("%w: job has %d rounds, got round %d", ErrInvalidRound, totalRounds, rr.RoundNumber)
	}
	for _, h := range app.History {
		if h.RoundNumber == rr.RoundNumber {
			return fmt.Errorf("%w: round %d", ErrDuplicateRound, rr.RoundNumber)
		}
	}

	history := make([]model.RoundResult, len(app.History), len(app.History)+1)
	copy(history, app.History)
	app.History = append(history, rr)

	if rr.Result == model.RoundOutcomeFailure {
		app.Status = model.ApplicationStatusRejected
		return nil
	}
	app.CurrentRound = rr.RoundNumber
	if totalRounds > 0 && rr.RoundNumber >= totalRounds {
		app.Status = model.ApplicationStatusSelected
	} else {
		app.Status = model.ApplicationStatusInProgress
	}
	return nil
}
