package approval

import "fmt"

// Template is a reusable, ordered definition of approval steps. The engine
// treats templates as read-only: a process copies what it needs at
// instantiation time, so later template edits never affect in-flight or
// completed processes.
type Template struct {
	id              uint
	name            string
	defaultAssignee *uint
	steps           []TemplateStep
}

// TemplateStep designates exactly one approver source: a concrete user or a
// role that is resolved to a user at instantiation time.
type TemplateStep struct {
	id             uint
	stepOrder      int
	approverUserID *uint
	approverRoleID *uint
}

func NewTemplateStep(id uint, stepOrder int, approverUserID, approverRoleID *uint) (TemplateStep, error) {
	if stepOrder <= 0 {
		return TemplateStep{}, fmt.Errorf("step order must be positive")
	}
	if approverUserID == nil && approverRoleID == nil {
		return TemplateStep{}, fmt.Errorf("template step %d must designate a user or a role", stepOrder)
	}
	if approverUserID != nil && approverRoleID != nil {
		return TemplateStep{}, fmt.Errorf("template step %d cannot designate both a user and a role", stepOrder)
	}
	return TemplateStep{
		id:             id,
		stepOrder:      stepOrder,
		approverUserID: approverUserID,
		approverRoleID: approverRoleID,
	}, nil
}

func (s TemplateStep) ID() uint              { return s.id }
func (s TemplateStep) StepOrder() int        { return s.stepOrder }
func (s TemplateStep) ApproverUserID() *uint { return s.approverUserID }
func (s TemplateStep) ApproverRoleID() *uint { return s.approverRoleID }

// IsRoleStep reports whether the approver must be resolved from a role.
func (s TemplateStep) IsRoleStep() bool {
	return s.approverRoleID != nil
}

func ReconstructTemplate(id uint, name string, defaultAssignee *uint, steps []TemplateStep) (*Template, error) {
	if id == 0 {
		return nil, fmt.Errorf("template ID cannot be zero")
	}
	if len(name) == 0 {
		return nil, fmt.Errorf("template name is required")
	}

	seen := make(map[int]bool, len(steps))
	for _, s := range steps {
		if seen[s.stepOrder] {
			return nil, fmt.Errorf("duplicate step order %d in template %d", s.stepOrder, id)
		}
		seen[s.stepOrder] = true
	}

	return &Template{
		id:              id,
		name:            name,
		defaultAssignee: defaultAssignee,
		steps:           steps,
	}, nil
}

func (t *Template) ID() uint               { return t.id }
func (t *Template) Name() string           { return t.name }
func (t *Template) DefaultAssignee() *uint { return t.defaultAssignee }

// Steps returns the template steps in ascending step order.
func (t *Template) Steps() []TemplateStep {
	stepsCopy := make([]TemplateStep, len(t.steps))
	copy(stepsCopy, t.steps)
	return stepsCopy
}

func (t *Template) IsEmpty() bool {
	return len(t.steps) == 0
}
