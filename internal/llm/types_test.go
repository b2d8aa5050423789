package llm

import (
	"encoding/json"
	"testing"
)

func TestRole_IsValid(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleSystem, true},
		{RoleUser, true},
		{RoleAssistant, true},
		{Role("tool"), false},
		{Role(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRole_UnmarshalJSON_RejectsUnknown(t *testing.T) {
	var r Role
	if err := json.Unmarshal([]byte(`"moderator"`), &r); err == nil {
		t.Error("expected error for unknown role")
	}
	if err := json.Unmarshal([]byte(`"assistant"`), &r); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if r != RoleAssistant {
		t.Errorf("role = %v, want assistant", r)
	}
}

func TestMessageConstructors(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		role Role
	}{
		{"system", NewSystemMessage("follow the script"), RoleSystem},
		{"user", NewUserMessage("I can't pay"), RoleUser},
		{"assistant", NewAssistantMessage("understood"), RoleAssistant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.msg.Role != tt.role {
				t.Errorf("Role = %v, want %v", tt.msg.Role, tt.role)
			}
			if err := tt.msg.Validate(); err != nil {
				t.Errorf("Validate() error: %v", err)
			}
		})
	}
}

func TestMessage_ValidateEmptyContent(t *testing.T) {
	msg := Message{Role: RoleUser}
	if err := msg.Validate(); err == nil {
		t.Error("expected error for empty content")
	}
}

func TestCompletionRequest_Validate(t *testing.T) {
	valid := CompletionRequest{
		Model:       "ernie-4.5-turbo-32k",
		Messages:    []Message{NewUserMessage("hello")},
		Temperature: 0.2,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*CompletionRequest)
	}{
		{"missing model", func(r *CompletionRequest) { r.Model = "" }},
		{"no messages", func(r *CompletionRequest) { r.Messages = nil }},
		{"bad temperature", func(r *CompletionRequest) { r.Temperature = 1.5 }},
		{"bad top_p", func(r *CompletionRequest) { r.TopP = -0.1 }},
		{"negative max tokens", func(r *CompletionRequest) { r.MaxTokens = -1 }},
		{"invalid message", func(r *CompletionRequest) { r.Messages = []Message{{Role: "robot", Content: "x"}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			if err := req.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestFinishReason_IsValid(t *testing.T) {
	for _, f := range []FinishReason{FinishReasonStop, FinishReasonLength, FinishReasonContentFilter, FinishReasonError} {
		if !f.IsValid() {
			t.Errorf("%s should be valid", f)
		}
	}
	if FinishReason("tool_calls").IsValid() {
		t.Error("tool_calls should not be valid")
	}
}
