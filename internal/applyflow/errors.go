package applyflow

import "errors"

var (
	errChallengeTimeout    = errors.New("challenge not resolved within wait bound")
	errConfirmationTimeout = errors.New("no submission confirmation observed")
	errUnexpectedForm      = errors.New("neither continue nor submit affordance found")
	errStepLimit           = errors.New("form step limit exceeded")
)
