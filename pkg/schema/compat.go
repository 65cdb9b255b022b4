package schema

// Compatible reports whether data shaped like source may flow into a slot
// typed target. The relation is directional: object width subtyping ignores
// extra source properties, and numeric widening accepts both int->float and
// float->int (the reverse direction tolerates precision loss).
func Compatible(source, target *PortSchema) bool {
	if source == nil || target == nil {
		return false
	}

	if source.Type == target.Type {
		switch source.Type {
		case TypeArray:
			return Compatible(source.Items, target.Items)
		case TypeObject:
			return objectCompatible(source, target)
		default:
			return true
		}
	}

	if isNumeric(source.Type) && isNumeric(target.Type) {
		return true
	}

	return false
}

func isNumeric(t PortType) bool {
	return t == TypeInt || t == TypeFloat
}

func objectCompatible(source, target *PortSchema) bool {
	// An open target accepts any object.
	if len(target.Properties) == 0 {
		return true
	}

	// An open source carries no property guarantees and can never satisfy
	// a target that declares properties.
	if len(source.Properties) == 0 {
		return false
	}

	for key, targetProp := range target.Properties {
		sourceProp, ok := source.Properties[key]
		if !ok {
			return false
		}

		if !Compatible(sourceProp, targetProp) {
			return false
		}
	}

	return true
}
