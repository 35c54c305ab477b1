package gateway

import (
	"fmt"
	"strconv"
	"strings"

	"category-quiz-service/internal/domain"
)

// ValidateQuestion checks the shape of a new question before any store call.
func ValidateQuestion(in domain.QuestionInput) error {
	if strings.TrimSpace(in.Question) == "" {
		return fmt.Errorf("%w: question is required", domain.ErrInvalidQuestion)
	}
	if len(in.Options) == 0 {
		return fmt.Errorf("%w: options are required", domain.ErrInvalidQuestion)
	}
	idx, err := canonicalIndex(in.CorrectAnswer)
	if err != nil {
		return err
	}
	if idx >= len(in.Options) {
		return fmt.Errorf("%w: correct answer %d is past the last option", domain.ErrInvalidQuestion, idx)
	}
	return nil
}

// ValidatePatch checks provided fields only; range against stored options is
// checked when both options and the correct answer are patched together.
func ValidatePatch(p domain.QuestionPatch) error {
	if p.Question != nil && strings.TrimSpace(*p.Question) == "" {
		return fmt.Errorf("%w: question cannot be blank", domain.ErrInvalidQuestion)
	}
	if p.Options != nil && len(p.Options) == 0 {
		return fmt.Errorf("%w: options cannot be empty", domain.ErrInvalidQuestion)
	}
	if p.CorrectAnswer != nil {
		idx, err := canonicalIndex(*p.CorrectAnswer)
		if err != nil {
			return err
		}
		if p.Options != nil && idx >= len(p.Options) {
			return fmt.Errorf("%w: correct answer %d is past the last option", domain.ErrInvalidQuestion, idx)
		}
	}
	return nil
}

// canonicalIndex accepts only the exact decimal form of a non-negative index,
// since answers are compared to it verbatim.
func canonicalIndex(token string) (int, error) {
	idx, err := strconv.Atoi(token)
	if err != nil || idx < 0 || strconv.Itoa(idx) != token {
		return 0, fmt.Errorf("%w: correct answer %q must be an option index", domain.ErrInvalidQuestion, token)
	}
	return idx, nil
}

// ValidatePatchAgainst checks p and then the question that results from
// applying it to current, so the correct answer always names an option.
func ValidatePatchAgainst(current domain.QuestionInput, p domain.QuestionPatch) error {
	if err := ValidatePatch(p); err != nil {
		return err
	}
	return ValidateQuestion(applyPatch(current, p))
}

func applyPatch(in domain.QuestionInput, p domain.QuestionPatch) domain.QuestionInput {
	if p.Question != nil {
		in.Question = *p.Question
	}
	if p.Options != nil {
		in.Options = p.Options
	}
	if p.CorrectAnswer != nil {
		in.CorrectAnswer = *p.CorrectAnswer
	}
	return in
}
