package flow

import "pawcheck/internal/domain"

// Controller owns the state of one session. It is not safe for concurrent
// use; each session has a single owner.
type Controller struct {
	bank  *domain.QuestionBank
	state State
}

// NewController starts a session over bank.
func NewController(bank *domain.QuestionBank) *Controller {
	return &Controller{bank: bank, state: Start(bank)}
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Terminal() bool { return c.state.Terminal }

func (c *Controller) Index() int { return c.state.Index }

// Current returns the question awaiting an answer.
func (c *Controller) Current() (domain.Question, bool) {
	return Current(c.bank, c.state)
}

// Visible returns the currently visible questions.
func (c *Controller) Visible() []domain.Question {
	return Visible(c.bank, c.state)
}

// Answers returns a copy of the answers collected so far.
func (c *Controller) Answers() domain.AnswerMap {
	return c.state.Answers.Clone()
}

// VisibleAnswers returns the answers of currently visible questions only.
// Answers left behind on questions hidden by a later change are dropped.
func (c *Controller) VisibleAnswers() domain.AnswerMap {
	out := domain.AnswerMap{}
	for _, q := range c.Visible() {
		if a, ok := c.state.Answers[q.ID]; ok && !a.IsEmpty() {
			out[q.ID] = a
		}
	}
	return out
}

// Progress returns the 1-based position of the current question and the
// number of visible questions.
func (c *Controller) Progress() (int, int) {
	total := len(c.Visible())
	if c.state.Terminal {
		return total, total
	}
	return c.state.Index + 1, total
}

func (c *Controller) Answer(value domain.Answer) error {
	next, err := Answer(c.bank, c.state, value)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

func (c *Controller) Next() error {
	next, err := Next(c.bank, c.state)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

func (c *Controller) Skip() error {
	next, err := Skip(c.bank, c.state)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

func (c *Controller) Prev() {
	c.state = Prev(c.bank, c.state)
}
