package domain

import "fmt"

// Question represents one entry of a DNS message's question section.
type Question struct {
	Name  Name
	Type  RRType
	Class RRClass
}

// NewQuestion constructs a Question from a presentation-format name and validates its fields.
func NewQuestion(name string, rrtype RRType, class RRClass) (Question, error) {
	n, err := ParseName(name)
	if err != nil {
		return Question{}, err
	}
	q := Question{
		Name:  n,
		Type:  rrtype,
		Class: class,
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

// Validate checks whether the Question fields are structurally and semantically valid.
func (q Question) Validate() error {
	if q.Name.IsRoot() {
		return fmt.Errorf("query name must not be empty")
	}
	if err := q.Name.Validate(); err != nil {
		return err
	}
	if !q.Type.IsValid() {
		return fmt.Errorf("unsupported RRType: %d", q.Type)
	}
	if !q.Class.IsValid() {
		return fmt.Errorf("unsupported RRClass: %d", q.Class)
	}
	return nil
}

// String renders the question in dig-like form for logs.
func (q Question) String() string {
	return fmt.Sprintf("%s %s %s", q.Name, q.Class, q.Type)
}
