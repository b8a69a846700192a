// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/pipemachine/memory"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

var labelRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

var charRegexp = regexp.MustCompile(`^'\\?[^']'`)

// stripComment removes a trailing ';' or '//' comment. Character literals
// and $(...) expressions may contain either.
func stripComment(text string) string {
	for n := 0; n < len(text); n++ {
		switch {
		case text[n] == '\'':
			n += max(len(charRegexp.FindString(text[n:]))-1, 0)
		case strings.HasPrefix(text[n:], "$("):
			depth := 0
			for n++; n < len(text); n++ {
				if text[n] == '(' {
					depth++
				} else if text[n] == ')' {
					depth--
					if depth == 0 {
						break
					}
				}
			}
		case text[n] == ';':
			return text[:n]
		case strings.HasPrefix(text[n:], "//"):
			return text[:n]
		}
	}

	return text
}

// Assembler is a single pass assembler for the pipemachine instruction set.
//
// Each line holds an optional label, then a mnemonic with its operand, a
// directive, or bare integers:
//
//	loop:   loadidxx table   ; AC = table[X]
//	        jumpifequal done
//	        .org $(TRAP_VECTOR)
//	        .word 1 2 3
type Assembler struct {
	Verbose   bool        // If set, verbosely logs the assembler actions.
	Statement []Statement // List of generated statements.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.

	address int // Next address to assemble to.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	if word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(strings.Trim(word, "'"))
		return
	}

	v64, err := strconv.ParseInt(word, 0, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v int
		v, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt(v)
	}
	err = nil
	for key, address := range asm.Label {
		pred[key] = starlark.MakeInt(address)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || !memory.CellValid(int(st_int64)) {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// parseLine expands a single line into words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "t":
				str = "\t"
			case "0":
				str = "\x00"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if strings.EqualFold(words[0], ".equ") {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !labelRegexp.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.address
		words = words[1:]
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Statement = asm.Statement[:0]
	asm.address = 0
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for n := range asm.Statement {
		st := &asm.Statement[n]

		if len(st.LinkLabel) == 0 {
			continue
		}
		address, ok := asm.Label[st.LinkLabel]
		if !ok {
			lineno = st.LineNo
			line = strings.Join(st.Words, " ")
			err = ErrLabelMissing(st.LinkLabel)
			return
		}
		st.Cells[len(st.Cells)-1] = address
	}

	prog = &Program{
		Statements: slices.Clone(asm.Statement),
	}

	return
}

// operandOf evaluates an instruction operand, which may be a label to link.
func (asm *Assembler) operandOf(word string) (value int, label string, err error) {
	value, err = asm.valueOf(word)
	if err != nil && labelRegexp.MatchString(word) {
		label = word
		value = 0
		err = nil
	}
	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var cells []int
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if err != nil || len(cells) == 0 {
			return
		}
		st := Statement{LineNo: lineno, Address: asm.address, Words: initial_words, Cells: cells, LinkLabel: label}
		asm.Statement = append(asm.Statement, st)
		asm.address += len(cells)
	}()

	switch strings.ToLower(words[0]) {
	case ".org":
		if len(words) != 2 {
			err = ErrOrgSyntax
			return
		}
		asm.address, err = asm.valueOf(words[1])
		return
	case ".word":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range words[1:] {
			var value int
			value, err = asm.valueOf(word)
			if err != nil {
				return
			}
			cells = append(cells, value)
		}
		return
	}

	op, ok := LookupMnemonic(words[0])
	if !ok {
		// Bare integers.
		for n, word := range words {
			var value int
			value, err = asm.valueOf(word)
			if err != nil {
				if n == 0 {
					err = ErrMnemonic(word)
				}
				return
			}
			cells = append(cells, value)
		}
		return
	}

	args := words[1:]
	if !op.HasOperand() {
		if len(args) != 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		cells = []int{int(op)}
		return
	}

	if len(args) == 0 {
		err = ErrOpcodeValueMissing
		return
	}
	if len(args) > 1 {
		err = ErrOpcodeExtraArgs
		return
	}

	var operand int
	operand, label, err = asm.operandOf(args[0])
	if err != nil {
		return
	}
	cells = []int{int(op), operand}

	return
}
