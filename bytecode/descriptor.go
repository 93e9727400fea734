package bytecode

import (
	"strings"
)

var baseTypeNames = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
	'V': "void",
}

// TypeName converts a field descriptor to the dotted source form used by
// the disassembler: Ljava/lang/String; becomes java.lang.String and [I
// becomes int[]. Malformed descriptors are returned unchanged.
func TypeName(desc string) string {
	name, rest := nextType(desc)
	if rest != "" || name == "" {
		return desc
	}
	return name
}

// SplitMethodDescriptor returns the parameter and result descriptors of a
// method descriptor.
func SplitMethodDescriptor(desc string) (params []string, result string) {
	if !strings.HasPrefix(desc, "(") {
		return nil, ""
	}
	end := strings.IndexByte(desc, ')')
	if end < 0 {
		return nil, ""
	}
	list := desc[1:end]
	for list != "" {
		n := descriptorLength(list)
		if n == 0 {
			break
		}
		params = append(params, list[:n])
		list = list[n:]
	}
	return params, desc[end+1:]
}

// ParamSlots returns the number of local variable slots taken by the
// parameters of a method descriptor.
func ParamSlots(desc string) int {
	params, _ := SplitMethodDescriptor(desc)
	n := 0
	for _, p := range params {
		n += DescriptorSlots(p)
	}
	return n
}

// DescriptorSlots returns the number of slots or stack words a value of the
// described type takes: 2 for long and double, 0 for void, 1 otherwise.
func DescriptorSlots(desc string) int {
	switch desc {
	case "J", "D":
		return 2
	case "V", "":
		return 0
	}
	return 1
}

func joinTypeNames(descs []string) string {
	names := make([]string, len(descs))
	for i, d := range descs {
		names[i] = TypeName(d)
	}
	return strings.Join(names, ", ")
}

func descriptorLength(desc string) int {
	i := 0
	for i < len(desc) && desc[i] == '[' {
		i++
	}
	if i >= len(desc) {
		return 0
	}
	if desc[i] == 'L' {
		end := strings.IndexByte(desc[i:], ';')
		if end < 0 {
			return 0
		}
		return i + end + 1
	}
	if _, ok := baseTypeNames[desc[i]]; !ok {
		return 0
	}
	return i + 1
}

func nextType(desc string) (string, string) {
	n := descriptorLength(desc)
	if n == 0 {
		return "", desc
	}
	d := desc[:n]
	dims := strings.Count(d, "[")
	d = d[dims:]
	var name string
	if d[0] == 'L' {
		name = strings.ReplaceAll(d[1:len(d)-1], "/", ".")
	} else {
		name = baseTypeNames[d[0]]
	}
	return name + strings.Repeat("[]", dims), desc[n:]
}
