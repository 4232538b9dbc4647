package game

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mission-vitale/backend/internal/models"
)

var (
	// ErrUnknownPuzzleType тип вне закрытого перечисления — жесткая ошибка, не нулевой счет
	ErrUnknownPuzzleType = errors.New("unknown puzzle type")
	// ErrMalformedInput solution или answer не той формы, что требует тип энигмы
	ErrMalformedInput = errors.New("malformed puzzle input")
)

// Result итог проверки ответа
type Result struct {
	Correct  bool   `json:"correct"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// Grade проверяет ответ против решения. Чистая функция без side effects:
// сохранение прогресса — забота вызывающего.
func Grade(puzzleType string, solution, answer map[string]interface{}, maxScore int) (Result, error) {
	switch puzzleType {
	case models.PuzzleQuiz, models.PuzzleImgQuiz:
		return gradeQuiz(solution, answer, maxScore)
	case models.PuzzleCode:
		return gradeCode(solution, answer, maxScore)
	case models.PuzzleDND:
		return gradeDND(solution, answer, maxScore)
	case models.PuzzleSchema:
		return gradeSchema(solution, answer, maxScore)
	case models.PuzzleImgRecon:
		return gradeImgRecon(solution, answer, maxScore)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownPuzzleType, puzzleType)
	}
}

// gradeQuiz частичный зачет: штраф 20% от max за каждый лишний выбор,
// correct только при точном совпадении множеств.
// solution: {"correct": [0,2]}  answer: {"selected": [...]}
func gradeQuiz(solution, answer map[string]interface{}, maxScore int) (Result, error) {
	correctSet, err := intSet(solution, "correct")
	if err != nil {
		return Result{}, err
	}
	selected, err := intSet(answer, "selected")
	if err != nil {
		return Result{}, err
	}

	good, wrong := 0, 0
	for idx := range selected {
		if correctSet[idx] {
			good++
		} else {
			wrong++
		}
	}
	total := len(correctSet)
	if total == 0 {
		total = 1
	}

	raw := float64(maxScore)*float64(good)/float64(total) - float64(wrong)*0.2*float64(maxScore)
	score := int(math.Round(raw))
	if score < 0 {
		score = 0
	}

	correct := good == len(correctSet) && wrong == 0 && len(selected) == len(correctSet)
	return Result{
		Correct:  correct,
		Score:    score,
		Feedback: fmt.Sprintf("Bonne(s) réponse(s): %d/%d", good, len(correctSet)),
	}, nil
}

// gradeCode сравнение текста с ожидаемым и альтернативами,
// нормализация по флагам strip (по умолчанию да) и case_sensitive (по умолчанию нет).
// solution: {"expected":"HELLO", "accepted":["..."], "case_sensitive":false, "strip":true}
// answer:   {"text":"hello"}
func gradeCode(solution, answer map[string]interface{}, maxScore int) (Result, error) {
	expected, err := stringField(solution, "expected")
	if err != nil {
		return Result{}, err
	}
	submitted, err := stringField(answer, "text")
	if err != nil {
		return Result{}, err
	}

	caseSensitive := boolField(solution, "case_sensitive", false)
	strip := boolField(solution, "strip", true)

	accepted := []string{expected}
	if raw, ok := solution["accepted"]; ok && raw != nil {
		list, ok := raw.([]interface{})
		if !ok {
			return Result{}, fmt.Errorf("%w: accepted must be a list", ErrMalformedInput)
		}
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return Result{}, fmt.Errorf("%w: accepted entries must be strings", ErrMalformedInput)
			}
			accepted = append(accepted, s)
		}
	}

	normalize := func(s string) string {
		if strip {
			s = strings.TrimSpace(s)
		}
		if !caseSensitive {
			s = strings.ToLower(s)
		}
		return s
	}

	submitted = normalize(submitted)
	ok := false
	for _, candidate := range accepted {
		if submitted == normalize(candidate) {
			ok = true
			break
		}
	}

	score := 0
	feedback := "Code incorrect"
	if ok {
		score = maxScore
		feedback = "Code juste"
	}
	return Result{Correct: ok, Score: score, Feedback: feedback}, nil
}

// gradeDND счет пропорционален числу верных размещений.
// solution: {"targets": {"slot1":"cardA"}}  answer: {"targets": {...}}
func gradeDND(solution, answer map[string]interface{}, maxScore int) (Result, error) {
	expected, err := stringMap(solution, "targets")
	if err != nil {
		return Result{}, err
	}
	submitted, err := stringMap(answer, "targets")
	if err != nil {
		return Result{}, err
	}

	total := len(expected)
	good := 0
	for slot, item := range expected {
		if submitted[slot] == item {
			good++
		}
	}

	denom := total
	if denom == 0 {
		denom = 1
	}
	return Result{
		Correct:  good == total,
		Score:    maxScore * good / denom,
		Feedback: fmt.Sprintf("Placements corrects: %d/%d", good, total),
	}, nil
}

// gradeSchema ребра неориентированные: пара нормализуется сортировкой концов,
// порядок ребер и концов не влияет на результат.
// solution: {"edges":[["A","B"],["B","C"]]}  answer: {"edges":[...]}
func gradeSchema(solution, answer map[string]interface{}, maxScore int) (Result, error) {
	expected, err := edgeSet(solution, "edges")
	if err != nil {
		return Result{}, err
	}
	submitted, err := edgeSet(answer, "edges")
	if err != nil {
		return Result{}, err
	}

	total := len(expected)
	good := 0
	for edge := range expected {
		if submitted[edge] {
			good++
		}
	}

	denom := total
	if denom == 0 {
		denom = 1
	}
	return Result{
		Correct:  good == total,
		Score:    maxScore * good / denom,
		Feedback: fmt.Sprintf("Connexions correctes: %d/%d", good, total),
	}, nil
}

// gradeImgRecon порядок восстановленных фрагментов должен совпасть точно
// solution: {"order":[0,1,2]}  answer: {"order":[...]}
func gradeImgRecon(solution, answer map[string]interface{}, maxScore int) (Result, error) {
	expected, err := intList(solution, "order")
	if err != nil {
		return Result{}, err
	}
	submitted, err := intList(answer, "order")
	if err != nil {
		return Result{}, err
	}

	ok := len(expected) == len(submitted)
	if ok {
		for i := range expected {
			if expected[i] != submitted[i] {
				ok = false
				break
			}
		}
	}

	score := 0
	feedback := "Ordre incorrect"
	if ok {
		score = maxScore
		feedback = "Ordre correct"
	}
	return Result{Correct: ok, Score: score, Feedback: feedback}, nil
}

// ---- извлечение полей из JSON (числа приходят как float64) ----

func intSet(m map[string]interface{}, key string) (map[int]bool, error) {
	list, err := intList(m, key)
	if err != nil {
		return nil, err
	}
	set := make(map[int]bool, len(list))
	for _, v := range list {
		set[v] = true
	}
	return set, nil
}

func intList(m map[string]interface{}, key string) ([]int, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedInput, key)
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %q must be a list", ErrMalformedInput, key)
	}
	out := make([]int, 0, len(list))
	for _, item := range list {
		num, ok := item.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: %q entries must be numbers", ErrMalformedInput, key)
		}
		out = append(out, int(num))
	}
	return out, nil
}

func stringField(m map[string]interface{}, key string) (string, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return "", fmt.Errorf("%w: missing %q", ErrMalformedInput, key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q must be a string", ErrMalformedInput, key)
	}
	return s, nil
}

func boolField(m map[string]interface{}, key string, def bool) bool {
	if raw, ok := m[key]; ok {
		if b, ok := raw.(bool); ok {
			return b
		}
	}
	return def
}

func stringMap(m map[string]interface{}, key string) (map[string]string, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedInput, key)
	}
	src, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %q must be an object", ErrMalformedInput, key)
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %q values must be strings", ErrMalformedInput, key)
		}
		out[k] = s
	}
	return out, nil
}

func edgeSet(m map[string]interface{}, key string) (map[[2]string]bool, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedInput, key)
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %q must be a list", ErrMalformedInput, key)
	}
	set := make(map[[2]string]bool, len(list))
	for _, item := range list {
		pair, ok := item.([]interface{})
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("%w: edges must be pairs", ErrMalformedInput)
		}
		a, okA := pair[0].(string)
		b, okB := pair[1].(string)
		if !okA || !okB {
			return nil, fmt.Errorf("%w: edge endpoints must be strings", ErrMalformedInput)
		}
		if a > b {
			a, b = b, a
		}
		set[[2]string{a, b}] = true
	}
	return set, nil
}
