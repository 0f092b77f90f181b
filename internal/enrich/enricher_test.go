package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/garyjia/os-extractor/internal/models"
	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

func reply(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func strp(s string) *string { return &s }

func partialResult() *models.ExtractionResult {
	return &models.ExtractionResult{
		SourceFile:  "frota_4100408.pdf",
		OrderNumber: strp("4100408"),
		Client:      models.Client{Code: strp("C123")},
		Items: []models.LineItem{
			{Total: decimal.RequireFromString("10.00"), ProductCode: "123"},
		},
		Totals: models.NewTotals(decimal.RequireFromString("10.00"), decimal.Zero),
	}
}

func TestEnricher_FillsOnlyAbsentFields(t *testing.T) {
	client := new(mockCompleter)
	client.On("CreateChatCompletion", mock.Anything, mock.MatchedBy(func(req openai.ChatCompletionRequest) bool {
		return req.Model == "gpt-4o-mini" &&
			req.ResponseFormat != nil &&
			req.ResponseFormat.Type == openai.ChatCompletionResponseFormatTypeJSONObject
	})).Return(reply(`{
		"order_number": "9999999",
		"client_code": "OTHER",
		"vehicle_plate": " ABC1D23 ",
		"client_name": null,
		"remarks": ""
	}`), nil)

	e := NewEnricherWithClient(client, Config{Model: "gpt-4o-mini"}, zap.NewNop())
	res := partialResult()

	filled, err := e.Enrich(context.Background(), res, "full text")

	require.NoError(t, err)
	assert.Equal(t, 1, filled)
	assert.Equal(t, "4100408", *res.OrderNumber, "present fields are kept")
	assert.Equal(t, "C123", *res.Client.Code)
	assert.Equal(t, "ABC1D23", *res.Vehicle.Plate)
	assert.Nil(t, res.Client.Name)
	assert.Nil(t, res.Remarks)
	assert.Len(t, res.Items, 1)
	assert.True(t, res.Totals.Gross.Equal(decimal.RequireFromString("10.00")))
	client.AssertExpectations(t)
}

func TestEnricher_AcceptsNonStringScalars(t *testing.T) {
	client := new(mockCompleter)
	client.On("CreateChatCompletion", mock.Anything, mock.Anything).Return(reply(`{
		"issue_date": "10/03/2024",
		"client_registration_id": 123456789012,
		"vehicle_odometer": 152340.5,
		"vehicle_fleet": {"nested": "x"},
		"client_phones": ["(11) 1234-5678"]
	}`), nil)

	e := NewEnricherWithClient(client, Config{}, zap.NewNop())
	res := partialResult()

	filled, err := e.Enrich(context.Background(), res, "text")

	require.NoError(t, err)
	assert.Equal(t, 3, filled)
	assert.Equal(t, "10/03/2024", *res.IssueDate)
	assert.Equal(t, "123456789012", *res.Client.RegistrationID)
	assert.Equal(t, "152340.5", *res.Vehicle.Odometer)
	assert.Nil(t, res.Vehicle.Fleet)
	assert.Nil(t, res.Client.Phones)
}

func TestEnricher_PromptListsAbsentKeysOnly(t *testing.T) {
	client := new(mockCompleter)
	var captured openai.ChatCompletionRequest
	client.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(openai.ChatCompletionRequest) }).
		Return(reply(`{}`), nil)

	e := NewEnricherWithClient(client, Config{Model: "m"}, zap.NewNop())
	_, err := e.Enrich(context.Background(), partialResult(), "texto")
	require.NoError(t, err)

	require.Len(t, captured.Messages, 2)
	prompt := captured.Messages[1].Content
	assert.Contains(t, prompt, "vehicle_plate")
	assert.Contains(t, prompt, "texto")
	assert.NotContains(t, prompt, "order_number")
	assert.NotContains(t, prompt, "client_code,")
}

func TestEnricher_NothingAbsentSkipsCall(t *testing.T) {
	client := new(mockCompleter)
	e := NewEnricherWithClient(client, Config{}, zap.NewNop())

	res := partialResult()
	for _, f := range absentFields(res) {
		*f.ptr = strp("x")
	}

	filled, err := e.Enrich(context.Background(), res, "")

	require.NoError(t, err)
	assert.Zero(t, filled)
	client.AssertNotCalled(t, "CreateChatCompletion", mock.Anything, mock.Anything)
}

func TestEnricher_Errors(t *testing.T) {
	tests := []struct {
		name string
		resp openai.ChatCompletionResponse
		err  error
	}{
		{"api failure", openai.ChatCompletionResponse{}, errors.New("rate limited")},
		{"no choices", openai.ChatCompletionResponse{}, nil},
		{"invalid json", reply("not json"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mockCompleter)
			client.On("CreateChatCompletion", mock.Anything, mock.Anything).Return(tt.resp, tt.err)

			e := NewEnricherWithClient(client, Config{}, zap.NewNop())
			res := partialResult()

			filled, err := e.Enrich(context.Background(), res, "text")

			assert.Error(t, err)
			assert.Zero(t, filled)
			assert.Nil(t, res.Vehicle.Plate)
		})
	}
}

func TestBuildPrompt_TruncatesLongText(t *testing.T) {
	long := make([]rune, maxPromptRunes+500)
	for i := range long {
		long[i] = 'ç'
	}

	prompt := buildPrompt([]string{"remarks"}, string(long))

	assert.Less(t, len([]rune(prompt)), maxPromptRunes+300)
}
