// Package tools implements the catalog tools agents can be equipped with.
package tools

import (
	"context"
	"strings"
)

// Input is the argument every tool accepts. Either field may be empty.
type Input struct {
	URL   string `json:"url,omitempty"`
	Query string `json:"query,omitempty"`
}

// Result is a tool answer: a single text or a list of texts.
type Result struct {
	Text  string
	Items []string
}

func TextResult(s string) Result {
	return Result{Text: s}
}

func ItemsResult(items []string) Result {
	if items == nil {
		items = []string{}
	}
	return Result{Items: items}
}

// String renders the result as the text handed back to the model.
func (r Result) String() string {
	if r.Items != nil {
		return strings.Join(r.Items, "\n")
	}
	return r.Text
}

// Tool is one capability from the tool catalog.
type Tool interface {
	Run(ctx context.Context, in Input) (Result, error)
}

// Func adapts a plain function to Tool.
type Func func(ctx context.Context, in Input) (Result, error)

func (f Func) Run(ctx context.Context, in Input) (Result, error) {
	return f(ctx, in)
}

// InputProvider answers questions addressed to the user while a crew runs.
type InputProvider interface {
	Ask(ctx context.Context, question string) (string, error)
}

// InputProviderFunc adapts a plain function to InputProvider.
type InputProviderFunc func(ctx context.Context, question string) (string, error)

func (f InputProviderFunc) Ask(ctx context.Context, question string) (string, error) {
	return f(ctx, question)
}
