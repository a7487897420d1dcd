package wizard

import (
	"fmt"
	"regexp"
	"strings"

	"patentdesk/internal/domain"
)

// Form field names shared by the steps and the stage commits.
const (
	FieldFirstName      = "first_name"
	FieldLastName       = "last_name"
	FieldNationalID     = "national_id"
	FieldEmail          = "email"
	FieldPhone          = "phone"
	FieldBirthDate      = "birth_date"
	FieldGenderID       = "gender_id"
	FieldCountryID      = "country_id"
	FieldStateID        = "state_id"
	FieldAddress        = "address"
	FieldTitle          = "title"
	FieldAppTypeID      = "application_type_id"
	FieldClassID        = "classification_id"
	FieldTechField      = "technical_field"
	FieldSummary        = "summary"
	FieldClaims         = "claims"
	FieldAbstract       = "abstract"
	FieldDrawings       = "drawings"
	FieldSupporting     = "supporting"
	FieldLikelihood     = "likelihood_checked"
	FieldLikelihoodRate = "likelihood_rate"
	FieldLikelihoodFile = "likelihood_file_id"

	FieldInventorFirstName  = "inventor_first_name"
	FieldInventorLastName   = "inventor_last_name"
	FieldInventorNationalID = "inventor_national_id"
	FieldInventorEmail      = "inventor_email"
	FieldEntitlementRate    = "entitlement_rate"

	FieldHasPriority     = "has_priority"
	FieldPriorityCountry = "priority_country_id"
	FieldPriorityNo      = "priority_application_no"
	FieldPriorityDate    = "priority_date"

	FieldSignature            = "signature"
	FieldConfirmAccuracy      = "confirm_accuracy"
	FieldConfirmNonRefundable = "confirm_non_refundable"

	FieldCardHolder  = "card_holder"
	FieldCardNumber  = "card_number"
	FieldExpiryMonth = "expiry_month"
	FieldExpiryYear  = "expiry_year"
	FieldCVV         = "cvv"
)

// Confirmation messages shown when a declaration box is left unchecked.
const (
	MsgConfirmAccuracy      = "You must confirm the information is accurate to proceed."
	MsgConfirmNonRefundable = "You must confirm the payment is non-refundable to proceed."
)

var (
	nationalIDPattern = regexp.MustCompile(`^\d{11}$`)
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern      = regexp.MustCompile(`^\+?\d{10,15}$`)
	cardNumberPattern = regexp.MustCompile(`^\d{13,19}$`)
	monthPattern      = regexp.MustCompile(`^(0[1-9]|1[0-2])$`)
	yearPattern       = regexp.MustCompile(`^(\d{2}|\d{4})$`)
	cvvPattern        = regexp.MustCompile(`^\d{3,4}$`)
)

// Options tunes the step rules that depend on deployment settings.
type Options struct {
	HomeCountry   string
	MaxClaims     int
	MaxAbstract   int
	MaxDrawings   int
	MaxSupporting int
}

// DefaultOptions returns the limits used by the patent office.
func DefaultOptions() Options {
	return Options{
		HomeCountry:   "TR",
		MaxClaims:     2,
		MaxAbstract:   1,
		MaxDrawings:   2,
		MaxSupporting: 2,
	}
}

// Step is one page of the application wizard.
type Step struct {
	number int
	title  string
	rules  []Rule
}

// Number returns the 1-based step number used in URLs.
func (s *Step) Number() int { return s.number }

// Title returns the human readable step name.
func (s *Step) Title() string { return s.title }

// Validate runs the step's field rules against form.
func (s *Step) Validate(form domain.FormData) Result {
	return Evaluate(form, s.rules)
}

// Fields lists the distinct fields the step validates.
func (s *Step) Fields() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range s.rules {
		if !seen[r.Field()] {
			seen[r.Field()] = true
			out = append(out, r.Field())
		}
	}
	return out
}

// Flow is the ordered list of wizard steps.
type Flow struct {
	steps []*Step
}

// NewFlow builds the seven application steps.
func NewFlow(opts Options) *Flow {
	return &Flow{steps: []*Step{
		applicantStep(opts),
		inventionStep(),
		documentsStep(opts),
		inventorsStep(),
		priorityStep(),
		declarationStep(),
		paymentStep(),
	}}
}

// Len returns the number of steps.
func (f *Flow) Len() int { return len(f.steps) }

// Step returns the step with the given 1-based number.
func (f *Flow) Step(n int) (*Step, error) {
	if n < 1 || n > len(f.steps) {
		return nil, domain.ErrInvalidStep
	}
	return f.steps[n-1], nil
}

// IsLast reports whether n is the final step.
func (f *Flow) IsLast(n int) bool { return n == len(f.steps) }

// URL builds the navigation path for step n, including the application
// number once one is known.
func URL(n int, applicationNo string) string {
	if applicationNo == "" {
		return fmt.Sprintf("/newapplication/step/%d", n)
	}
	return fmt.Sprintf("/newapplication/step/%d/%s", n, applicationNo)
}

func applicantStep(opts Options) *Step {
	home := strings.ToUpper(opts.HomeCountry)
	inHomeCountry := func(form domain.FormData) bool {
		return strings.EqualFold(form.String(FieldCountryID), home)
	}
	return &Step{number: 1, title: "Applicant", rules: []Rule{
		Required(FieldFirstName, "First name"),
		Length(FieldFirstName, "First name", 2, 50),
		Required(FieldLastName, "Last name"),
		Length(FieldLastName, "Last name", 2, 50),
		Required(FieldNationalID, "National ID"),
		Pattern(FieldNationalID, nationalIDPattern, "National ID must be exactly 11 digits"),
		Required(FieldEmail, "Email"),
		Pattern(FieldEmail, emailPattern, "Email address is invalid"),
		Required(FieldPhone, "Phone"),
		Pattern(FieldPhone, phonePattern, "Phone must be 10 to 15 digits"),
		Required(FieldBirthDate, "Birth date"),
		PastDate(FieldBirthDate, "Birth date"),
		Required(FieldGenderID, "Gender"),
		Required(FieldCountryID, "Country"),
		When(inHomeCountry, Required(FieldStateID, "State")),
		Required(FieldAddress, "Address"),
		Length(FieldAddress, "Address", 1, 250),
	}}
}

func inventionStep() *Step {
	return &Step{number: 2, title: "Invention", rules: []Rule{
		Required(FieldTitle, "Title"),
		Length(FieldTitle, "Title", 5, 200),
		Required(FieldAppTypeID, "Application type"),
		Required(FieldClassID, "Patent classification"),
		Required(FieldTechField, "Technical field"),
		Required(FieldSummary, "Summary"),
		Length(FieldSummary, "Summary", 50, 5000),
	}}
}

func documentsStep(opts Options) *Step {
	return &Step{number: 3, title: "Documents", rules: []Rule{
		FileCount(FieldClaims, "claims", 1, opts.MaxClaims),
		FileCount(FieldAbstract, "abstract", opts.MaxAbstract, opts.MaxAbstract),
		FileCount(FieldDrawings, "drawings", 1, opts.MaxDrawings),
		FileCount(FieldSupporting, "supporting", 0, opts.MaxSupporting),
		newRule(FieldLikelihood, func(form domain.FormData) (string, bool) {
			if LikelihoodCurrent(form) {
				return "", true
			}
			return "Run the likelihood check before continuing", false
		}),
	}}
}

func inventorsStep() *Step {
	return &Step{number: 4, title: "Inventors", rules: []Rule{
		Required(FieldInventorFirstName, "Inventor first name"),
		Required(FieldInventorLastName, "Inventor last name"),
		Required(FieldInventorNationalID, "Inventor national ID"),
		Pattern(FieldInventorNationalID, nationalIDPattern, "Inventor national ID must be exactly 11 digits"),
		Required(FieldInventorEmail, "Inventor email"),
		Pattern(FieldInventorEmail, emailPattern, "Inventor email address is invalid"),
		Required(FieldEntitlementRate, "Entitlement rate"),
		Range(FieldEntitlementRate, "Entitlement rate", 0, 100),
	}}
}

func priorityStep() *Step {
	hasPriority := func(form domain.FormData) bool { return form.Bool(FieldHasPriority) }
	return &Step{number: 5, title: "Priority", rules: []Rule{
		When(hasPriority, Required(FieldPriorityCountry, "Priority country")),
		When(hasPriority, Required(FieldPriorityNo, "Priority application number")),
		Length(FieldPriorityNo, "Priority application number", 1, 50),
		When(hasPriority, Required(FieldPriorityDate, "Priority date")),
		PastDate(FieldPriorityDate, "Priority date"),
	}}
}

func declarationStep() *Step {
	return &Step{number: 6, title: "Declaration", rules: []Rule{
		Required(FieldSignature, "Signature"),
		Checked(FieldConfirmAccuracy, MsgConfirmAccuracy),
		Checked(FieldConfirmNonRefundable, MsgConfirmNonRefundable),
	}}
}

func paymentStep() *Step {
	return &Step{number: 7, title: "Payment", rules: []Rule{
		Required(FieldCardHolder, "Card holder"),
		Required(FieldCardNumber, "Card number"),
		newRule(FieldCardNumber, func(form domain.FormData) (string, bool) {
			if cardNumberPattern.MatchString(CardDigits(form.String(FieldCardNumber))) {
				return "", true
			}
			return "Card number must be 13 to 19 digits", false
		}),
		Required(FieldExpiryMonth, "Expiry month"),
		Pattern(FieldExpiryMonth, monthPattern, "Expiry month must be 01 to 12"),
		Required(FieldExpiryYear, "Expiry year"),
		Pattern(FieldExpiryYear, yearPattern, "Expiry year must be 2 or 4 digits"),
		Required(FieldCVV, "CVV"),
		Pattern(FieldCVV, cvvPattern, "CVV must be 3 or 4 digits"),
	}}
}

// LikelihoodFields are written only by the likelihood check, never by the client.
var LikelihoodFields = []string{FieldLikelihood, FieldLikelihoodRate, FieldLikelihoodFile}

// LikelihoodCurrent reports whether the recorded likelihood check scored the
// single abstract currently listed in form.
func LikelihoodCurrent(form domain.FormData) bool {
	abstract := form.List(FieldAbstract)
	scored := form.String(FieldLikelihoodFile)
	return form.Bool(FieldLikelihood) && scored != "" && len(abstract) == 1 && abstract[0] == scored
}

// CardDigits strips the spaces and dashes users type into card numbers.
func CardDigits(s string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(s)
}
