package cpuid

// ModelId identifies a processor's family, model, and stepping after the
// extended-family/extended-model fold-in rules (§3).
type ModelId struct {
	Family   uint32
	Model    uint32
	Stepping uint32

	// BaseFamily, BaseModel, Type are the raw unfolded fields, kept for
	// callers that need to distinguish e.g. family 0x6 from the extended
	// family that folded into it.
	BaseFamily uint32
	BaseModel  uint32
	Type       uint32
}

// ModelFrom unpacks basic leaf 1's EAX ("version information") into a
// ModelId, applying the x86 extended-family/extended-model fold-in rules:
//
//	effective family = base family + (base family == 0xF ? extended family : 0)
//	effective model  = base model | (base family in {6, 15} ? extended model << 4 : 0)
func ModelFrom(leaf1EAX uint32) ModelId {
	stepping := leaf1EAX & 0xF
	baseModel := (leaf1EAX >> 4) & 0xF
	baseFamily := (leaf1EAX >> 8) & 0xF
	procType := (leaf1EAX >> 12) & 0x3
	extModel := (leaf1EAX >> 16) & 0xF
	extFamily := (leaf1EAX >> 20) & 0xFF

	family := baseFamily
	if baseFamily == 0xF {
		family += extFamily
	}

	model := baseModel
	if baseFamily == 0x6 || baseFamily == 0xF {
		model |= extModel << 4
	}

	return ModelId{
		Family:     family,
		Model:      model,
		Stepping:   stepping,
		BaseFamily: baseFamily,
		BaseModel:  baseModel,
		Type:       procType,
	}
}
