package validate

// AllRules returns every built-in rule: the content-format checks plus the
// structural shape checks.
func AllRules() []Rule {
	rules := make([]Rule, 0, 8)
	rules = append(rules, FormatRules()...)
	rules = append(rules, StructuralRules()...)
	return rules
}

// StrictProfile runs every built-in rule and aborts the parse on the first
// error-severity issue.
func StrictProfile() *Profile {
	return &Profile{Name: "Strict", Rules: AllRules(), Default: Validate}
}

// LenientProfile runs every built-in rule but only ever reports issues,
// never aborting the parse.
func LenientProfile() *Profile {
	return &Profile{Name: "Lenient", Rules: AllRules(), Default: Warn}
}

// PermissiveProfile runs only the structural (shape) rules, never aborting.
// Format-grammar violations (bad dates, malformed UIDs) are not checked at
// all under this preset.
func PermissiveProfile() *Profile {
	return &Profile{Name: "Permissive", Rules: StructuralRules(), Default: Skip}
}

// NoneProfile disables the validation engine entirely: Engine.Run on a nil
// Profile is a no-op, so this exists as an explicit, self-documenting
// alternative to passing a nil *Profile around.
func NoneProfile() *Profile {
	return &Profile{Name: "None", Rules: nil, Default: Skip}
}
