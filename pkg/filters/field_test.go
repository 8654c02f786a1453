package filters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qfilter/pkg/filters/query/memq"
)

func fieldError(t *testing.T, err error) *FieldError {
	t.Helper()
	var fe *FieldError
	require.True(t, errors.As(err, &fe), "expected *FieldError, got %v", err)
	return fe
}

func TestField_Validate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		field   *Field
		raw     any
		want    any
		code    Code
		message string
	}{
		{name: "CharMaxLength", field: Char(MaxLength(10), MinLength(5)), raw: "Lorem Ipsum Nequ",
			code: CodeMaxLength, message: "Ensure this field has no more than 10 characters."},
		{name: "CharMinLength", field: Char(MaxLength(10), MinLength(5)), raw: "Nequ",
			code: CodeMinLength, message: "Ensure this field has at least 5 characters."},
		{name: "CharTrimmed", field: Char(), raw: "  Lorem  ", want: "Lorem"},
		{name: "CharBlank", field: Char(), raw: "   ", code: CodeBlank, message: "This field may not be blank."},
		{name: "CharBool", field: Char(), raw: true, code: CodeInvalid, message: "Not a valid string."},
		{name: "CharNull", field: Char(), raw: nil, code: CodeNull, message: "This field may not be null."},
		{name: "CharNullAllowed", field: Char(AllowNull()), raw: nil, want: nil},

		{name: "Email", field: Email(), raw: "abc@example.com", want: "abc@example.com"},
		{name: "EmailInvalid", field: Email(), raw: "invalid_email_address",
			code: CodeInvalid, message: "Enter a valid email address."},
		{name: "Slug", field: Slug(), raw: "hello-world_1", want: "hello-world_1"},
		{name: "SlugInvalid", field: Slug(), raw: "invalid slug with space",
			code: CodeInvalid, message: `Enter a valid "slug" consisting of letters, numbers, underscores or hyphens.`},
		{name: "URL", field: URL(), raw: "https://example.com/a?b=c", want: "https://example.com/a?b=c"},
		{name: "URLInvalid", field: URL(), raw: "invalid url", code: CodeInvalid, message: "Enter a valid URL."},
		{name: "IP", field: IPAddress(), raw: "2001:db8::1", want: "2001:db8::1"},
		{name: "IPInvalid", field: IPAddress(), raw: "999.1.1.1",
			code: CodeInvalid, message: "Enter a valid IPv4 or IPv6 address."},

		{name: "BooleanTrue", field: Boolean(), raw: "TRUE", want: true},
		{name: "BooleanOff", field: Boolean(), raw: "off", want: false},
		{name: "BooleanNative", field: Boolean(), raw: false, want: false},
		{name: "BooleanNull", field: Boolean(), raw: "null", want: nil},
		{name: "BooleanInvalid", field: Boolean(), raw: "an-invalid-value",
			code: CodeInvalid, message: "Must be a valid boolean."},

		{name: "Integer", field: Integer(), raw: " 42 ", want: int64(42)},
		{name: "IntegerZeroFraction", field: Integer(), raw: "3.00", want: int64(3)},
		{name: "IntegerFraction", field: Integer(), raw: "3.5", code: CodeInvalid, message: "A valid integer is required."},
		{name: "IntegerMax", field: Integer(MaxValue(10)), raw: "11",
			code: CodeMaxValue, message: "Ensure this value is less than or equal to 10."},
		{name: "IntegerMin", field: Integer(MinValue(0)), raw: "-1",
			code: CodeMinValue, message: "Ensure this value is greater than or equal to 0."},
		{name: "Float", field: Float(), raw: "2.5", want: 2.5},
		{name: "FloatInvalid", field: Float(), raw: "NaN", code: CodeInvalid, message: "A valid number is required."},

		{name: "DecimalMaxDigits", field: Decimal(5, 2), raw: "123456",
			code: CodeMaxDigits, message: "Ensure that there are no more than 5 digits in total."},
		{name: "DecimalMaxPlaces", field: Decimal(5, 2), raw: "1.234",
			code: CodeMaxDecimalPlaces, message: "Ensure that there are no more than 2 decimal places."},
		{name: "DecimalMaxWhole", field: Decimal(5, 2), raw: "1234.5",
			code: CodeMaxWholeDigits, message: "Ensure that there are no more than 3 digits before the decimal point."},
		{name: "DecimalInvalid", field: Decimal(5, 2), raw: "12a", code: CodeInvalid, message: "A valid number is required."},

		{name: "Choice", field: ChoiceOf([]Choice{{Value: "draft"}, {Value: "published"}}), raw: "draft", want: "draft"},
		{name: "ChoiceInvalid", field: ChoiceOf([]Choice{{Value: "draft"}}), raw: "i",
			code: CodeInvalidChoice, message: `"i" is not a valid choice.`},

		{name: "DateInvalid", field: Date(), raw: "03/02/2024",
			code: CodeInvalid, message: "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."},
		{name: "DateCustomInvalid", field: Date(InputFormats("02/01/2006", ISO8601)), raw: "x",
			code: CodeInvalid, message: "Date has wrong format. Use one of these formats instead: 02/01/2006, YYYY-MM-DD."},
		{name: "TimeInvalid", field: Time(), raw: "25:00",
			code: CodeInvalid, message: "Time has wrong format. Use one of these formats instead: hh:mm[:ss[.uuuuuu]]."},
		{name: "Duration", field: Duration(), raw: "1 02:03:04", want: 26*time.Hour + 3*time.Minute + 4*time.Second},
		{name: "DurationSeconds", field: Duration(), raw: "90", want: 90 * time.Second},
		{name: "DurationGo", field: Duration(), raw: "1h30m", want: 90 * time.Minute},
		{name: "DurationInvalid", field: Duration(), raw: "soon",
			code: CodeInvalid, message: "Duration has wrong format. Use one of these formats instead: [DD] [HH:[MM:]]ss[.uuuuuu]."},
		{name: "DurationOverflowDays", field: Duration(), raw: "999999999 00:00",
			code: CodeInvalid, message: "Duration has wrong format. Use one of these formats instead: [DD] [HH:[MM:]]ss[.uuuuuu]."},
		{name: "DurationOverflowSeconds", field: Duration(), raw: "99999999999",
			code: CodeInvalid, message: "Duration has wrong format. Use one of these formats instead: [DD] [HH:[MM:]]ss[.uuuuuu]."},
		{name: "DurationLargest", field: Duration(), raw: "106751 00:00:00", want: 106751 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.field.Validate(ctx, tt.raw)
			if tt.code == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			fe := fieldError(t, err)
			assert.Equal(t, []Code{tt.code}, fe.Codes())
			assert.Equal(t, tt.message, fe.Details[0].Message)
		})
	}
}

func TestField_ValidateCollectsTextErrors(t *testing.T) {
	_, err := Email(MaxLength(20)).Validate(context.Background(), "invalid_email_address@invalid_domain")
	fe := fieldError(t, err)
	assert.Equal(t, []Code{CodeMaxLength, CodeInvalid}, fe.Codes())
}

func TestField_ValidateDecimal(t *testing.T) {
	got, err := Decimal(5, 2).Validate(context.Background(), "123.45")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("123.45").Equal(got.(decimal.Decimal)))
}

func TestField_ValidateTemporal(t *testing.T) {
	ctx := context.Background()

	got, err := Date().Validate(ctx, "2024-02-03")
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC).Equal(got.(time.Time)))

	got, err = Date(InputFormats("02/01/2006")).Validate(ctx, "03/02/2024")
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC).Equal(got.(time.Time)))

	got, err = DateTime().Validate(ctx, "2024-02-03T10:20:30+02:00")
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 2, 3, 8, 20, 30, 0, time.UTC).Equal(got.(time.Time)))

	got, err = Time().Validate(ctx, "10:20")
	require.NoError(t, err)
	assert.Equal(t, 10, got.(time.Time).Hour())
	assert.Equal(t, 20, got.(time.Time).Minute())
}

func TestList_EncodingsAreEquivalent(t *testing.T) {
	ctx := context.Background()
	f := List(Integer())
	want := []any{int64(3), int64(4), int64(5)}

	for _, raw := range []any{"3,4,5", "[3,4,5]", []string{"3", "4", "5"}, []string{"3,4,5"}} {
		got, err := f.Validate(ctx, raw)
		require.NoError(t, err, "raw %v", raw)
		assert.Equal(t, want, got, "raw %v", raw)
	}
}

func TestList_Separator(t *testing.T) {
	got, err := List(nil, Separator("|")).Validate(context.Background(), "a|b")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, got)
}

func TestList_BracketFallsBackToSeparator(t *testing.T) {
	got, err := List(Char()).Validate(context.Background(), "[a,b]")
	require.NoError(t, err)
	assert.Equal(t, []any{"[a", "b]"}, got)
}

func TestList_ElementErrorsAreIndexed(t *testing.T) {
	_, err := List(Integer()).Validate(context.Background(), "1,x,3,y")
	fe := fieldError(t, err)
	require.Len(t, fe.Items, 2)
	assert.Equal(t, "A valid integer is required.", fe.Items[1].Details[0].Message)
	assert.Contains(t, fe.Items, 3)
}

func TestList_NotAList(t *testing.T) {
	_, err := List(Integer()).Validate(context.Background(), map[string]any{"a": 1})
	fe := fieldError(t, err)
	assert.Equal(t, []Code{CodeNotAList}, fe.Codes())
}

func TestRange_Length(t *testing.T) {
	ctx := context.Background()
	f := Range(Integer())

	_, err := f.Validate(ctx, "[1,2,3]")
	fe := fieldError(t, err)
	assert.Equal(t, []Code{CodeMaxLength}, fe.Codes())
	assert.Equal(t, "Ensure this field has no more than 2 elements.", fe.Details[0].Message)

	_, err = f.Validate(ctx, "1")
	fe = fieldError(t, err)
	assert.Equal(t, []Code{CodeMinLength}, fe.Codes())

	// An empty sequence is still too short
	for _, raw := range []any{"[]", []string{}} {
		_, err = f.Validate(ctx, raw)
		fe = fieldError(t, err)
		assert.Equal(t, []Code{CodeMinLength}, fe.Codes())
		assert.Equal(t, "Ensure this field has at least 2 elements.", fe.Details[0].Message)
	}

	empty, err := List(Integer()).Validate(ctx, "[]")
	require.NoError(t, err)
	assert.Equal(t, []any{}, empty)

	// Length is checked before the elements
	_, err = f.Validate(ctx, "a,b,c")
	fe = fieldError(t, err)
	assert.Equal(t, []Code{CodeMaxLength}, fe.Codes())
	assert.Empty(t, fe.Items)

	got, err := f.Validate(ctx, "1,9")
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(9)}, got)
}

func TestRelated_Validate(t *testing.T) {
	ctx := context.Background()
	authors := memq.New(
		memq.Row{"id": 1, "slug": "ann"},
		memq.Row{"id": 2, "slug": "bob"},
	)

	got, err := PrimaryKeyRelated(authors).Validate(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	_, err = PrimaryKeyRelated(authors).Validate(ctx, "11")
	fe := fieldError(t, err)
	assert.Equal(t, []Code{CodeDoesNotExist}, fe.Codes())
	assert.Equal(t, `Invalid pk "11" - object does not exist.`, fe.Details[0].Message)

	_, err = PrimaryKeyRelated(authors).Validate(ctx, "abc")
	fe = fieldError(t, err)
	assert.Equal(t, "Incorrect type. Expected pk value, received string.", fe.Details[0].Message)

	got, err = SlugRelated(authors, "slug").Validate(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", got)

	_, err = SlugRelated(authors, "slug").Validate(ctx, "eve")
	fe = fieldError(t, err)
	assert.Equal(t, "Object with slug=eve does not exist.", fe.Details[0].Message)
}

type failingResolver struct{}

func (failingResolver) Exists(context.Context, string, any) (bool, error) {
	return false, errors.New("connection refused")
}

func TestRelated_ResolverFailureIsNotAFieldError(t *testing.T) {
	_, err := PrimaryKeyRelated(failingResolver{}).Validate(context.Background(), "1")
	require.Error(t, err)
	var fe *FieldError
	assert.False(t, errors.As(err, &fe))
}

func TestPath(t *testing.T) {
	p := ParsePath("related.text")
	assert.Equal(t, "related__text", p.Attribute())
	assert.Equal(t, "related_id", ParsePath("related.id").Attribute())
	assert.Equal(t, "text", ParsePath("text").Attribute())

	v, err := p.Walk(p.Nest("x"))
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	v, err = p.Walk(Mapping(nil))
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = ParsePath("a.b.c").Walk(Mapping(map[string]Value{"b": Scalar(1)}))
	assert.EqualError(t, err, `source "a.b.c": segment "b" does not resolve to a mapping`)
}

func TestWidgetHint(t *testing.T) {
	assert.Equal(t, WidgetCheckbox, WidgetHint(KindBoolean))
	assert.Equal(t, WidgetTextarea, WidgetHint(KindList))
	assert.Equal(t, WidgetTextarea, WidgetHint(KindRange))
	assert.Equal(t, WidgetInput, WidgetHint(KindText))
	assert.Equal(t, WidgetInput, WidgetHint(KindRelated))
}
