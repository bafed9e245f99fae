package validate

import (
	"testing"

	"github.com/codeninja55/go-radx/dicom/tag"
	"github.com/stretchr/testify/assert"
)

// TestStrictProfile_RunsAllRulesAndValidates verifies the Strict preset
// combines every built-in rule with a Validate default.
func TestStrictProfile_RunsAllRulesAndValidates(t *testing.T) {
	p := StrictProfile()
	assert.Equal(t, Validate, p.Default)
	assert.Len(t, p.Rules, len(AllRules()))
}

// TestLenientProfile_RunsAllRulesButNeverAborts verifies the Lenient
// preset runs every rule but defaults to Warn.
func TestLenientProfile_RunsAllRulesButNeverAborts(t *testing.T) {
	p := LenientProfile()
	assert.Equal(t, Warn, p.Default)
	assert.Len(t, p.Rules, len(AllRules()))
}

// TestPermissiveProfile_StructuralOnly verifies the Permissive preset runs
// only structural rules and never aborts.
func TestPermissiveProfile_StructuralOnly(t *testing.T) {
	p := PermissiveProfile()
	assert.Equal(t, Skip, p.Default)
	assert.Len(t, p.Rules, len(StructuralRules()))
}

// TestNoneProfile_NoRulesAndSkip verifies the None preset carries no rules
// and defaults to Skip, documenting that Engine.Run is a no-op on it even
// though the Profile itself is non-nil.
func TestNoneProfile_NoRulesAndSkip(t *testing.T) {
	p := NoneProfile()
	assert.Equal(t, Skip, p.Default)
	assert.Empty(t, p.Rules)
}

// TestProfile_BehaviorFor_NilProfile verifies a nil *Profile resolves to
// Skip for any tag.
func TestProfile_BehaviorFor_NilProfile(t *testing.T) {
	var p *Profile
	assert.Equal(t, Skip, p.BehaviorFor(tag.New(0x0010, 0x0010)))
}

// TestProfile_BehaviorFor_Default verifies a tag with no override resolves
// to the profile's Default.
func TestProfile_BehaviorFor_Default(t *testing.T) {
	p := &Profile{Default: Validate}
	assert.Equal(t, Validate, p.BehaviorFor(tag.New(0x0010, 0x0010)))
}

// TestProfile_BehaviorFor_Override verifies a per-tag override takes
// precedence over Default.
func TestProfile_BehaviorFor_Override(t *testing.T) {
	watchedTag := tag.New(0x0008, 0x0018)
	p := &Profile{
		Default:   Validate,
		Overrides: map[tag.Tag]Behavior{watchedTag: Skip},
	}
	assert.Equal(t, Skip, p.BehaviorFor(watchedTag))
	assert.Equal(t, Validate, p.BehaviorFor(tag.New(0x0010, 0x0010)))
}
