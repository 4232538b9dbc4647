package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func TestGradeQuiz(t *testing.T) {
	solution := mustJSON(t, `{"correct":[0,2]}`)

	tests := []struct {
		name      string
		answer    string
		correct   bool
		score     int
	}{
		{"exact match gives full score", `{"selected":[0,2]}`, true, 100},
		{"order does not matter", `{"selected":[2,0]}`, true, 100},
		{"empty selection is incorrect", `{"selected":[]}`, false, 0},
		{"partial selection scores half", `{"selected":[0]}`, false, 50},
		{"wrong pick costs 20 percent", `{"selected":[0,2,1]}`, false, 80},
		{"only wrong picks floor at zero", `{"selected":[1,3,4,5,6,7]}`, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Grade("QUIZ", solution, mustJSON(t, tt.answer), 100)
			require.NoError(t, err)
			assert.Equal(t, tt.correct, result.Correct)
			assert.Equal(t, tt.score, result.Score)
		})
	}
}

func TestGradeImgQuizSharesQuizRules(t *testing.T) {
	solution := mustJSON(t, `{"correct":[1]}`)

	result, err := Grade("IMG_QUIZ", solution, mustJSON(t, `{"selected":[1]}`), 50)
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, 50, result.Score)
}

func TestGradeCode(t *testing.T) {
	tests := []struct {
		name     string
		solution string
		answer   string
		correct  bool
	}{
		{
			"default strip and case fold",
			`{"expected":"Hello"}`,
			`{"text":"  hello  "}`,
			true,
		},
		{
			"case sensitive rejects wrong case",
			`{"expected":"Hello","case_sensitive":true}`,
			`{"text":"hello"}`,
			false,
		},
		{
			"no strip keeps surrounding spaces significant",
			`{"expected":"hello","strip":false}`,
			`{"text":" hello"}`,
			false,
		},
		{
			"accepted alternates match",
			`{"expected":"O2","accepted":["oxygene","dioxygene"]}`,
			`{"text":"Dioxygene"}`,
			true,
		},
		{
			"plain mismatch",
			`{"expected":"4221"}`,
			`{"text":"1224"}`,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Grade("CODE", mustJSON(t, tt.solution), mustJSON(t, tt.answer), 100)
			require.NoError(t, err)
			assert.Equal(t, tt.correct, result.Correct)
			if tt.correct {
				assert.Equal(t, 100, result.Score)
			} else {
				assert.Zero(t, result.Score)
			}
		})
	}
}

func TestGradeDND(t *testing.T) {
	solution := mustJSON(t, `{"targets":{"slot1":"cardA","slot2":"cardB","slot3":"cardC","slot4":"cardD"}}`)

	result, err := Grade("DND", solution, mustJSON(t, `{"targets":{"slot1":"cardA","slot2":"cardB","slot3":"cardC","slot4":"cardD"}}`), 100)
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, 100, result.Score)

	result, err = Grade("DND", solution, mustJSON(t, `{"targets":{"slot1":"cardA","slot2":"cardB","slot3":"cardX"}}`), 100)
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Equal(t, 50, result.Score)
}

func TestGradeSchema(t *testing.T) {
	solution := mustJSON(t, `{"edges":[["A","B"],["B","C"]]}`)

	// порядок ребер и концов не должен влиять на результат
	answers := []string{
		`{"edges":[["A","B"],["B","C"]]}`,
		`{"edges":[["B","A"],["C","B"]]}`,
		`{"edges":[["C","B"],["A","B"]]}`,
	}
	for _, answer := range answers {
		result, err := Grade("SCHEMA", solution, mustJSON(t, answer), 100)
		require.NoError(t, err)
		assert.True(t, result.Correct, "answer %s", answer)
		assert.Equal(t, 100, result.Score)
	}

	result, err := Grade("SCHEMA", solution, mustJSON(t, `{"edges":[["A","B"]]}`), 100)
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Equal(t, 50, result.Score)
}

func TestGradeImgRecon(t *testing.T) {
	solution := mustJSON(t, `{"order":[0,1,2,3]}`)

	result, err := Grade("IMG_RECON", solution, mustJSON(t, `{"order":[0,1,2,3]}`), 80)
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, 80, result.Score)

	// почти правильный порядок не дает частичного зачета
	result, err = Grade("IMG_RECON", solution, mustJSON(t, `{"order":[0,1,3,2]}`), 80)
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Zero(t, result.Score)
}

func TestGradeUnknownType(t *testing.T) {
	_, err := Grade("MAZE", map[string]interface{}{}, map[string]interface{}{}, 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownPuzzleType)
}

func TestGradeMalformedInput(t *testing.T) {
	tests := []struct {
		name       string
		puzzleType string
		solution   string
		answer     string
	}{
		{"quiz solution missing correct", "QUIZ", `{}`, `{"selected":[0]}`},
		{"quiz selected not a list", "QUIZ", `{"correct":[0]}`, `{"selected":"0"}`},
		{"code answer missing text", "CODE", `{"expected":"x"}`, `{}`},
		{"dnd targets not an object", "DND", `{"targets":[]}`, `{"targets":{}}`},
		{"schema edge not a pair", "SCHEMA", `{"edges":[["A"]]}`, `{"edges":[]}`},
		{"recon order not numbers", "IMG_RECON", `{"order":["a"]}`, `{"order":[0]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Grade(tt.puzzleType, mustJSON(t, tt.solution), mustJSON(t, tt.answer), 100)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedInput)
		})
	}
}
