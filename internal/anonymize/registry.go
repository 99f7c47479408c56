// Package anonymize provides the static registry of anonymization rules applied
// to personal-data fields. Every transform is intentionally irreversible: the
// hash input or the original precision is discarded, so the data subject can no
// longer be identified from the output alone.
package anonymize

import "sort"

// Technique labels how a field value is anonymized.
type Technique string

const (
	// TechniquePseudonymization replaces the value with a keyed-hash-derived token.
	TechniquePseudonymization Technique = "pseudonymization"
	// TechniqueMasking hides part or all of the value with mask characters.
	TechniqueMasking Technique = "masking"
	// TechniqueGeneralization reduces the value to a coarser equivalence class.
	TechniqueGeneralization Technique = "generalization"
	// TechniquePerturbation adds random noise to a numeric value.
	TechniquePerturbation Technique = "perturbation"
)

// Hasher provides the keyed one-way hash used by pseudonymization transforms.
// *service.Box from internal/crypto satisfies this interface.
type Hasher interface {
	KeyedHash(value string) string
}

// Rule describes how one field is anonymized. Rules are immutable after
// registry construction.
type Rule struct {
	// FieldName is the personal-data field this rule applies to.
	FieldName string
	// Technique is the anonymization technique recorded on transformed records.
	Technique Technique
	// Category is the data category the field typically carries.
	Category string
	// DefaultRetentionDays is the suggested retention period for the field.
	DefaultRetentionDays int
	// Transform converts the original value into its anonymized form.
	Transform func(value string) (string, error)
}

// Registry is the read-only table of anonymization rules, built once at
// engine startup. Fields with no registered rule cannot be anonymized.
type Registry struct {
	rules map[string]Rule
}

// NewRegistry builds the registry with the engine's built-in rules.
// The hasher backs the pseudonymization transforms; it must be the same keyed
// hash for the process lifetime so repeated anonymization is stable.
func NewRegistry(hasher Hasher) *Registry {
	r := &Registry{rules: make(map[string]Rule)}

	r.register(Rule{
		FieldName:            "email",
		Technique:            TechniquePseudonymization,
		Category:             "identifiable",
		DefaultRetentionDays: 2555,
		Transform:            emailTransform(hasher),
	})
	r.register(Rule{
		FieldName:            "phone",
		Technique:            TechniqueMasking,
		Category:             "identifiable",
		DefaultRetentionDays: 2555,
		Transform:            phoneTransform,
	})
	r.register(Rule{
		FieldName:            "name",
		Technique:            TechniquePseudonymization,
		Category:             "identifiable",
		DefaultRetentionDays: 2555,
		Transform:            nameTransform(hasher),
	})
	r.register(Rule{
		FieldName:            "ipAddress",
		Technique:            TechniqueGeneralization,
		Category:             "technical",
		DefaultRetentionDays: 365,
		Transform:            ipAddressTransform,
	})
	r.register(Rule{
		FieldName:            "location",
		Technique:            TechniquePerturbation,
		Category:             "sensitive",
		DefaultRetentionDays: 1095,
		Transform:            locationTransform,
	})

	return r
}

func (r *Registry) register(rule Rule) {
	r.rules[rule.FieldName] = rule
}

// Lookup returns the rule registered for fieldName, if any.
func (r *Registry) Lookup(fieldName string) (Rule, bool) {
	rule, ok := r.rules[fieldName]
	return rule, ok
}

// Fields returns the sorted list of field names with registered rules.
func (r *Registry) Fields() []string {
	fields := make([]string, 0, len(r.rules))
	for name := range r.rules {
		fields = append(fields, name)
	}
	sort.Strings(fields)
	return fields
}
