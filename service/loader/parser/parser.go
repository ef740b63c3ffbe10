// Package parser reads process description files. A description file has
// three header sections naming the processes with optional priorities, the
// resources and the mailboxes, followed by one block of s-expression
// instructions per process:
//
//	processes P1 1 P2 5
//	resources R1 R2
//	mailboxes m1
//
//	process P1
//	(req R1)
//	(rel R1)
//
//	process P2
//	(send m1 hello)
//	(recv m1 hello)
package parser

import (
	"fmt"
	"strings"

	"github.com/caedentelfer/procsim/model"
	"github.com/viant/parsly"
	"github.com/viant/toolbox"
)

// Process is a parsed process declaration with its instruction list.
type Process struct {
	Name     string
	Priority int
	Program  model.Program
}

// Definition is the parsed content of a description file.
type Definition struct {
	Processes []*Process
	Resources []string
	Mailboxes []string
}

type section int

const (
	sectionNone section = iota
	sectionProcesses
	sectionResources
	sectionMailboxes
	sectionBody
)

var instructionKinds = map[string]model.Kind{
	"req":  model.KindRequest,
	"rel":  model.KindRelease,
	"send": model.KindSend,
	"recv": model.KindReceive,
}

// Parse parses a process description file.
func Parse(input []byte) (*Definition, error) {
	cursor := parsly.NewCursor("", input, 0)
	definition := &Definition{}
	var declared *Process
	var current *Process
	mode := sectionNone

	for {
		matched := cursor.MatchAfterOptional(whitespaceToken, openParenToken, numberToken, identifierToken)
		switch matched.Code {
		case parsly.EOF:
			return definition, nil
		case openParenCode:
			if current == nil {
				return nil, fmt.Errorf("instruction outside a process block at position %v", cursor.Pos)
			}
			if err := parseInstruction(cursor, current); err != nil {
				return nil, err
			}
		case numberCode:
			if mode != sectionProcesses || declared == nil {
				return nil, fmt.Errorf("unexpected number %q at position %v", matched.Text(cursor), cursor.Pos)
			}
			declared.Priority = toolbox.AsInt(matched.Text(cursor))
		case identifierCode:
			word := matched.Text(cursor)
			switch word {
			case "processes":
				mode = sectionProcesses
			case "resources":
				mode = sectionResources
			case "mailboxes":
				mode = sectionMailboxes
			case "process":
				mode = sectionBody
				matched = cursor.MatchAfterOptional(whitespaceToken, identifierToken)
				if matched.Code != identifierCode {
					return nil, cursor.NewError(identifierToken)
				}
				current = definition.ensure(matched.Text(cursor))
			default:
				switch mode {
				case sectionProcesses:
					declared = definition.ensure(word)
				case sectionResources:
					definition.Resources = append(definition.Resources, word)
				case sectionMailboxes:
					definition.Mailboxes = append(definition.Mailboxes, word)
				default:
					return nil, fmt.Errorf("unexpected token %q at position %v", word, cursor.Pos)
				}
			}
		default:
			return nil, cursor.NewError(openParenToken, numberToken, identifierToken)
		}
	}
}

func parseInstruction(cursor *parsly.Cursor, process *Process) error {
	matched := cursor.MatchAfterOptional(whitespaceToken, identifierToken)
	if matched.Code != identifierCode {
		return cursor.NewError(identifierToken)
	}
	word := matched.Text(cursor)
	kind, ok := instructionKinds[word]
	if !ok {
		return fmt.Errorf("unknown instruction %q at position %v", word, cursor.Pos)
	}

	matched = cursor.MatchAfterOptional(whitespaceToken, identifierToken)
	if matched.Code != identifierCode {
		return cursor.NewError(identifierToken)
	}
	instruction := model.Instruction{Kind: kind, Resource: matched.Text(cursor)}

	if kind == model.KindSend || kind == model.KindReceive {
		matched = cursor.MatchAfterOptional(whitespaceToken, messageToken)
		if matched.Code == messageCode {
			instruction.Message = strings.TrimSpace(matched.Text(cursor))
		}
	}

	matched = cursor.MatchAfterOptional(whitespaceToken, closeParenToken)
	if matched.Code != closeParenCode {
		return cursor.NewError(closeParenToken)
	}
	process.Program = append(process.Program, instruction)
	return nil
}

// ensure returns the declared process with the supplied name, adding a
// declaration with priority 0 when the name was never declared up front.
func (d *Definition) ensure(name string) *Process {
	for _, candidate := range d.Processes {
		if candidate.Name == name {
			return candidate
		}
	}
	process := &Process{Name: name}
	d.Processes = append(d.Processes, process)
	return process
}
