package recipe

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// ConanfileName is the file the resolution tool reads from the project root.
const ConanfileName = "conanfile.py"

// WriteConanfile renders r as a Conan 1.x conanfile.py.
//
// The generated requirements() and build_requirements() hooks mirror
// [Recipe.Requirements] and [Recipe.BuildRequirements]; package() copies
// headers only and package_id() collapses to header_only().
func WriteConanfile(w io.Writer, r *Recipe) error {
	meta := r.Metadata()

	var buf bytes.Buffer
	buf.WriteString("from conans import ConanFile\n\n\n")
	fmt.Fprintf(&buf, "class %s(ConanFile):\n", className(meta.Name))
	fmt.Fprintf(&buf, "    name = %s\n", pyString(meta.Name))
	fmt.Fprintf(&buf, "    version = %s\n", pyString(meta.Version))
	fmt.Fprintf(&buf, "    description = %s\n", pyString(meta.Description))
	fmt.Fprintf(&buf, "    homepage = %s\n", pyString(meta.Homepage))
	fmt.Fprintf(&buf, "    url = %s\n", pyString(meta.URL))
	fmt.Fprintf(&buf, "    license = %s\n", pyString(meta.License))
	fmt.Fprintf(&buf, "    author = %s\n", pyString(meta.Author))
	fmt.Fprintf(&buf, "    topics = %s\n", pyTuple(meta.Topics))
	fmt.Fprintf(&buf, "    settings = %s\n", pyList(SettingNames))
	buf.WriteString("    options = {\n")
	fmt.Fprintf(&buf, "        %s: [True, False],\n", pyString(OptionRequirementsForTests))
	buf.WriteString("    }\n")
	buf.WriteString("    default_options = {\n")
	fmt.Fprintf(&buf, "        %s: %s,\n", pyString(OptionRequirementsForTests), pyBool(DefaultOptions().RequirementsForTests))
	buf.WriteString("    }\n")
	fmt.Fprintf(&buf, "    exports_sources = (%s,)\n", pyString(ExportedSources+"/*"))
	buf.WriteString("    no_copy_source = True\n")
	buf.WriteString("    generators = \"cmake\", \"cmake_find_package\"\n\n")

	buf.WriteString("    def requirements(self):\n")
	writeHookBody(&buf, "        ", "self.requires", r.Requirements())
	buf.WriteString("\n")

	buf.WriteString("    def build_requirements(self):\n")
	fmt.Fprintf(&buf, "        if self.options.%s:\n", OptionRequirementsForTests)
	writeHookBody(&buf, "            ", "self.build_requires", r.BuildRequirements(Options{RequirementsForTests: true}))
	buf.WriteString("\n")

	buf.WriteString("    def package(self):\n")
	fmt.Fprintf(&buf, "        self.copy(%s)\n\n", pyString(HeaderPattern))

	buf.WriteString("    def package_id(self):\n")
	buf.WriteString("        self.info.header_only()\n")

	_, err := w.Write(buf.Bytes())
	return err
}

func writeHookBody(buf *bytes.Buffer, indent, call string, set RequirementSet) {
	if len(set) == 0 {
		buf.WriteString(indent + "pass\n")
		return
	}
	for _, req := range set {
		fmt.Fprintf(buf, "%s%s(%s)\n", indent, call, pyString(req.String()))
	}
}

// className turns "cpp_hash_tables" into "CppHashTablesConan".
func className(name string) string {
	var sb strings.Builder
	for _, part := range strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		sb.WriteString(string(runes))
	}
	sb.WriteString("Conan")
	return sb.String()
}

func pyString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

func pyList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = pyString(s)
	}
	return strings.Join(quoted, ", ")
}

func pyTuple(items []string) string {
	switch len(items) {
	case 0:
		return "()"
	case 1:
		return "(" + pyString(items[0]) + ",)"
	default:
		return "(" + pyList(items) + ")"
	}
}
