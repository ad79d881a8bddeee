package tools

import (
	"context"
	"strings"
)

// userInput forwards the model's question to the person running the crew.
type userInput struct {
	provider InputProvider
}

func (t *userInput) Run(ctx context.Context, in Input) (Result, error) {
	question := strings.TrimSpace(in.Query)
	if question == "" {
		question = "Please provide the information needed to continue."
	}
	answer, err := t.provider.Ask(ctx, question)
	if err != nil {
		return Result{}, err
	}
	return TextResult(answer), nil
}
