package fields

import (
	"context"
	"strings"
	"testing"

	"github.com/tochi-dev/docmatch/internal/llm"
	"github.com/tochi-dev/docmatch/internal/template"
)

type fakeChat struct {
	response string
	lastUser string
}

func (f *fakeChat) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	f.lastUser = req.User
	return f.response, nil
}

func TestExtractWithTemplate(t *testing.T) {
	chat := &fakeChat{response: "Here is the result:\n{\"invoice_number\": \"INV-42\", \"total\": \"99.50\"}\nDone."}
	e := NewExtractor(chat, nil)

	res, err := e.Extract(context.Background(), Request{
		Text: "Invoice INV-42, total 99.50",
		Match: &template.Match{
			TemplateID: "template-7-7",
			Fields:     []string{"invoice_number", "total"},
			Confidence: 90,
		},
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !res.UsedTemplate || res.TemplateID != "template-7-7" {
		t.Errorf("template attribution wrong: %+v", res)
	}
	if res.Fields["invoice_number"] != "INV-42" {
		t.Errorf("invoice_number = %v", res.Fields["invoice_number"])
	}
	if res.Fields["total"] != "99.50" {
		t.Errorf("total = %v", res.Fields["total"])
	}
	if !strings.Contains(chat.lastUser, "invoice_number, total") {
		t.Errorf("prompt missing field list:\n%s", chat.lastUser)
	}
}

func TestExtractTemplateNullField(t *testing.T) {
	chat := &fakeChat{response: `{"invoice_number": "INV-1", "total": null}`}
	e := NewExtractor(chat, nil)

	res, err := e.Extract(context.Background(), Request{
		Text:  "partial document",
		Match: &template.Match{TemplateID: "template-1-1", Fields: []string{"invoice_number", "total"}},
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if v, present := res.Fields["total"]; !present || v != nil {
		t.Errorf("total = %v (present=%v), want explicit null", v, present)
	}
}

func TestExtractTemplateRejectsUnknownKeys(t *testing.T) {
	chat := &fakeChat{response: `{"invoice_number": "INV-1", "surprise": "x"}`}
	e := NewExtractor(chat, nil)

	_, err := e.Extract(context.Background(), Request{
		Text:  "doc",
		Match: &template.Match{TemplateID: "template-1-1", Fields: []string{"invoice_number"}},
	})
	if err == nil {
		t.Fatal("expected a schema validation error for an unrequested key")
	}
	if !strings.Contains(err.Error(), "template-1-1") {
		t.Errorf("error should name the template: %v", err)
	}
}

func TestExtractWithUserPrompt(t *testing.T) {
	chat := &fakeChat{response: `{"party": "Acme Corp"}`}
	e := NewExtractor(chat, nil)

	res, err := e.Extract(context.Background(), Request{
		Text:       "Agreement between Acme Corp and others",
		UserPrompt: "who are the parties",
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.UsedTemplate {
		t.Error("no template was supplied")
	}
	if !strings.Contains(chat.lastUser, `"who are the parties"`) {
		t.Errorf("prompt missing the user description:\n%s", chat.lastUser)
	}
	if res.Fields["party"] != "Acme Corp" {
		t.Errorf("party = %v", res.Fields["party"])
	}
}

func TestExtractGenericPrompt(t *testing.T) {
	chat := &fakeChat{response: `{"date": "2024-01-01"}`}
	e := NewExtractor(chat, nil)

	if _, err := e.Extract(context.Background(), Request{Text: "doc"}); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(chat.lastUser, "key-value pairs") {
		t.Errorf("generic prompt not used:\n%s", chat.lastUser)
	}
}

func TestExtractNoJSONInResponse(t *testing.T) {
	chat := &fakeChat{response: "I could not find any fields."}
	e := NewExtractor(chat, nil)

	if _, err := e.Extract(context.Background(), Request{Text: "doc"}); err == nil {
		t.Fatal("expected an error when the response has no JSON object")
	}
}
