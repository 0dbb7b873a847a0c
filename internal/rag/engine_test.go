package rag

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"go.uber.org/mock/gomock"

	"ainotes/internal/llm"
	"ainotes/internal/rag/mocks"
	"ainotes/internal/vectorstore"
	vectorstore_mocks "ainotes/internal/vectorstore/mocks"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestBuildContext(t *testing.T) {
	tests := []struct {
		name    string
		results []vectorstore.SearchResult
		want    string
	}{
		{
			name: "joins in rank order",
			results: []vectorstore.SearchResult{
				{Meta: map[string]any{"text": "first"}},
				{Meta: map[string]any{"text": "second"}},
			},
			want: "first\n\nsecond",
		},
		{
			name: "skips matches without text",
			results: []vectorstore.SearchResult{
				{Meta: map[string]any{"user_id": int64(1)}},
				{Meta: map[string]any{"text": "only"}},
				{Meta: map[string]any{"text": 12}},
			},
			want: "only",
		},
		{
			name:    "no text at all",
			results: []vectorstore.SearchResult{{Meta: map[string]any{}}},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildContext(tt.results); got != tt.want {
				t.Errorf("BuildContext() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildMessages(t *testing.T) {
	msgs := BuildMessages("ctx", "why?")
	if len(msgs) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(msgs))
	}
	if msgs[0].Role != llm.RoleSystem || msgs[0].Content != SystemPrompt {
		t.Errorf("system message = %+v", msgs[0])
	}
	want := "NOTES:\nctx\n\nQUESTION: why?"
	if msgs[1].Role != llm.RoleUser || msgs[1].Content != want {
		t.Errorf("user message = %+v, want content %q", msgs[1], want)
	}
}

func TestNewEngine_DefaultTopK(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	e := NewEngine(mocks.NewMockEmbedder(ctrl), vectorstore_mocks.NewMockVectorStore(ctrl), "c", mocks.NewMockGenerator(ctrl), 0)
	if got := e.(*ragEngine).topK; got != DefaultTopK {
		t.Errorf("topK = %d, want %d", got, DefaultTopK)
	}
}

func TestEngine_Ask(t *testing.T) {
	vec := []float32{1, 0}
	errBoom := errors.New("boom")

	tests := []struct {
		name       string
		question   string
		mockSetup  func(emb *mocks.MockEmbedder, vs *vectorstore_mocks.MockVectorStore, gen *mocks.MockGenerator)
		wantAnswer string
		wantErr    error
	}{
		{
			name:     "answers from user notes",
			question: "what to buy?",
			mockSetup: func(emb *mocks.MockEmbedder, vs *vectorstore_mocks.MockVectorStore, gen *mocks.MockGenerator) {
				emb.EXPECT().Embed(gomock.Any(), "what to buy?").Return(vec, nil)
				vs.EXPECT().Search(gomock.Any(), "notes", vec, 3, vectorstore.Filter{"user_id": int64(7)}).
					Return([]vectorstore.SearchResult{
						{PointID: "note-1", Meta: map[string]any{"text": "Groceries\nmilk"}},
						{PointID: "note-2", Meta: map[string]any{"text": "Hardware\nnails"}},
					}, nil)
				gen.EXPECT().ChatWithMessages(gomock.Any(),
					BuildMessages("Groceries\nmilk\n\nHardware\nnails", "what to buy?"),
					llm.ChatParams{},
				).Return("milk and nails", nil)
			},
			wantAnswer: "milk and nails",
		},
		{
			name:     "no matches",
			question: "anything?",
			mockSetup: func(emb *mocks.MockEmbedder, vs *vectorstore_mocks.MockVectorStore, gen *mocks.MockGenerator) {
				emb.EXPECT().Embed(gomock.Any(), gomock.Any()).Return(vec, nil)
				vs.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantErr: ErrNoMatches,
		},
		{
			name:     "matches without text",
			question: "anything?",
			mockSetup: func(emb *mocks.MockEmbedder, vs *vectorstore_mocks.MockVectorStore, gen *mocks.MockGenerator) {
				emb.EXPECT().Embed(gomock.Any(), gomock.Any()).Return(vec, nil)
				vs.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]vectorstore.SearchResult{{PointID: "note-1", Meta: map[string]any{}}}, nil)
			},
			wantErr: ErrEmptyContext,
		},
		{
			name:     "embedding failure",
			question: "anything?",
			mockSetup: func(emb *mocks.MockEmbedder, vs *vectorstore_mocks.MockVectorStore, gen *mocks.MockGenerator) {
				emb.EXPECT().Embed(gomock.Any(), gomock.Any()).Return(nil, errBoom)
			},
			wantErr: errBoom,
		},
		{
			name:     "search failure",
			question: "anything?",
			mockSetup: func(emb *mocks.MockEmbedder, vs *vectorstore_mocks.MockVectorStore, gen *mocks.MockGenerator) {
				emb.EXPECT().Embed(gomock.Any(), gomock.Any()).Return(vec, nil)
				vs.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errBoom)
			},
			wantErr: errBoom,
		},
		{
			name:     "generation failure",
			question: "anything?",
			mockSetup: func(emb *mocks.MockEmbedder, vs *vectorstore_mocks.MockVectorStore, gen *mocks.MockGenerator) {
				emb.EXPECT().Embed(gomock.Any(), gomock.Any()).Return(vec, nil)
				vs.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]vectorstore.SearchResult{{Meta: map[string]any{"text": "t"}}}, nil)
				gen.EXPECT().ChatWithMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errBoom)
			},
			wantErr: errBoom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			emb := mocks.NewMockEmbedder(ctrl)
			vs := vectorstore_mocks.NewMockVectorStore(ctrl)
			gen := mocks.NewMockGenerator(ctrl)
			tt.mockSetup(emb, vs, gen)

			engine := NewEngine(emb, vs, "notes", gen, 3)
			resp, err := engine.Ask(context.Background(), AskRequest{Question: tt.question, UserID: 7})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Ask() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Ask() unexpected error: %v", err)
			}
			if resp.Answer != tt.wantAnswer {
				t.Errorf("Answer = %q, want %q", resp.Answer, tt.wantAnswer)
			}
			if resp.Question != tt.question {
				t.Errorf("Question = %q, want %q", resp.Question, tt.question)
			}
		})
	}
}
