package nlp

import (
	"strings"

	"github.com/navossoc/bayesian"
)

// Intent is the category an utterance is classified into.
type Intent string

const (
	IntentQuestion  Intent = "question"
	IntentObjective Intent = "objective"
	IntentTask      Intent = "task"
	IntentNone      Intent = "none"
)

const (
	classObjective bayesian.Class = "objective"
	classTask      bayesian.Class = "task"
)

var intentByClass = map[bayesian.Class]Intent{
	classObjective: IntentObjective,
	classTask:      IntentTask,
}

var objectiveSeeds = []string{
	"necesitamos lograr el objetivo",
	"nuestro objetivo es alcanzar la meta",
	"debemos alcanzar la meta este trimestre",
	"la meta es lograr el objetivo",
	"tenemos que completar el objetivo",
	"our goal is to achieve the objective",
	"we need to achieve this goal",
	"the objective is to reach the target",
}

var taskSeeds = []string{
	"hay que hacer la tarea",
	"necesitamos implementar el sistema",
	"vamos a desarrollar el módulo",
	"se debe crear el documento",
	"tenemos pendiente implementar la tarea",
	"we need to implement the feature",
	"we should create the document",
	"the task is to develop the module",
}

var interrogativeOpeners = []string{
	"qué", "quién", "quiénes", "cuál", "cuáles", "cómo", "dónde", "cuándo",
	"cuánto", "cuánta", "cuántos", "cuántas", "por qué",
	"what", "who", "which", "how", "where", "when", "why",
}

// IntentClassifier labels sentences as question, objective, task, or none.
// Questions are recognized by interrogative structure; objectives and tasks
// by a naive Bayes model trained on seed phrasings, accepted only above the
// confidence threshold.
type IntentClassifier struct {
	model     *bayesian.Classifier
	threshold float64
}

// NewIntentClassifier trains a classifier with the given confidence
// threshold. Training happens once; the classifier is read-only afterwards
// and safe to share across concurrent jobs.
func NewIntentClassifier(threshold float64) *IntentClassifier {
	model := bayesian.NewClassifier(classObjective, classTask)
	for _, seed := range objectiveSeeds {
		model.Learn(features(seed), classObjective)
	}
	for _, seed := range taskSeeds {
		model.Learn(features(seed), classTask)
	}
	return &IntentClassifier{model: model, threshold: threshold}
}

// Classify returns the intent of a sentence and the confidence behind it.
// Sentences scoring below the threshold are IntentNone.
func (c *IntentClassifier) Classify(sentence string) (Intent, float64) {
	sentence = strings.TrimSpace(sentence)
	if sentence == "" {
		return IntentNone, 0
	}

	if isQuestion(sentence) {
		return IntentQuestion, 1
	}

	tokens := features(sentence)
	if len(tokens) == 0 {
		return IntentNone, 0
	}

	scores, likely, _ := c.model.ProbScores(tokens)
	if likely < 0 || likely >= len(scores) {
		return IntentNone, 0
	}
	confidence := scores[likely]
	if confidence <= c.threshold {
		return IntentNone, confidence
	}
	intent, ok := intentByClass[c.model.Classes[likely]]
	if !ok {
		return IntentNone, confidence
	}
	return intent, confidence
}

func features(sentence string) []string {
	return FoldTokens(Tokenize(sentence))
}

func isQuestion(sentence string) bool {
	if strings.ContainsAny(sentence, "?¿") {
		return true
	}
	lowered := strings.ToLower(sentence)
	for _, opener := range interrogativeOpeners {
		if strings.HasPrefix(lowered, opener+" ") {
			return true
		}
	}
	return false
}
