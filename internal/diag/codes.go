package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Block matching (comment markers)
	BlkInfo           Code = 1000
	BlkMissingEnd     Code = 1001
	BlkExtraEnd       Code = 1002
	BlkBadStatement   Code = 1003
	BlkBodyUnreadable Code = 1004

	// Directive extraction
	DirInfo              Code = 2000
	DirConflict          Code = 2001
	DirComponentBinding  Code = 2002
	DirBadObjectLiteral  Code = 2003
	DirUnknownBinding    Code = 2004
	DirMarkupParse       Code = 2005
	DirNoUpdate          Code = 2006
	DirForeachNotList    Code = 2007
	DirBadForeachOptions Code = 2008

	// Evaluation and lookups
	EvalInfo             Code = 3000
	EvalFailed           Code = 3001
	EvalCompileFailed    Code = 3002
	EvalTemplateMissing  Code = 3003
	EvalComponentMissing Code = 3004
	EvalRefUnresolved    Code = 3005
	EvalComponentRender  Code = 3006

	// Ошибки I/O
	IOLoadFileError Code = 4001
	IODataFileError Code = 4002

	// Project manifest
	ProjInfo             Code = 5000
	ProjBadManifest      Code = 5001
	ProjMissingTemplate  Code = 5002
	ProjComponentSelfUse Code = 5003
	ProjComponentCycle   Code = 5004
	ProjDependencyFailed Code = 5005

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	BlkInfo:           "Block information",
	BlkMissingEnd:     "Missing end marker for containerless statement",
	BlkExtraEnd:       "Extra end marker",
	BlkBadStatement:   "Malformed containerless statement",
	BlkBodyUnreadable: "Statement body cannot be carved",

	DirInfo:              "Directive information",
	DirConflict:          "Conflicting bindings on one element",
	DirComponentBinding:  "Component tag carries a non-attr binding",
	DirBadObjectLiteral:  "Malformed binding object literal",
	DirUnknownBinding:    "Unknown binding",
	DirMarkupParse:       "Markup could not be parsed",
	DirNoUpdate:          "Binding has no update handler",
	DirForeachNotList:    "Foreach value is not a list",
	DirBadForeachOptions: "Malformed foreach options",

	EvalInfo:             "Evaluation information",
	EvalFailed:           "Expression evaluation failed",
	EvalCompileFailed:    "Expression does not compile",
	EvalTemplateMissing:  "Sub-template is undefined",
	EvalComponentMissing: "Component is undefined",
	EvalRefUnresolved:    "Reference target cannot be resolved",
	EvalComponentRender:  "Component render failed",

	IOLoadFileError: "I/O load file error",
	IODataFileError: "Data file error",

	ProjInfo:             "Project information",
	ProjBadManifest:      "Invalid project manifest",
	ProjMissingTemplate:  "Component template is missing",
	ProjComponentSelfUse: "Component template uses itself",
	ProjComponentCycle:   "Component templates use each other in a cycle",
	ProjDependencyFailed: "Used component template has errors",

	ObsInfo:    "Observability information",
	ObsTimings: "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("BLK%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("DIR%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("EVL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
