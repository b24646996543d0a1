// Package nlp implements the structured-interpretation path: one blocking
// call to an external language model expecting a fixed JSON contract, with
// the rule-based parser as the fallback on any failure.
package nlp

// Intent tags recognized in structured responses. Anything else is treated
// as IntentUnknown and routed to the rule-based fallback.
const (
	IntentCreateBox       = "CREATE_BOX"
	IntentCreateCylinder  = "CREATE_CYLINDER"
	IntentCreatePlate     = "CREATE_PLATE"
	IntentCreatePart      = "CREATE_PART"
	IntentAddExtrusion    = "ADD_EXTRUSION"
	IntentAddCut          = "ADD_CUT"
	IntentAddFillet       = "ADD_FILLET"
	IntentAddChamfer      = "ADD_CHAMFER"
	IntentAddHole         = "ADD_HOLE"
	IntentAddPattern      = "ADD_PATTERN"
	IntentModifyDimension = "MODIFY_DIMENSION"
	IntentSavePart        = "SAVE_PART"
	IntentExportPart      = "EXPORT_PART"
	IntentClosePart       = "CLOSE_PART"
	IntentUndo            = "UNDO"
	IntentRedo            = "REDO"
	IntentHelp            = "HELP"
	IntentShowInfo        = "SHOW_INFO"
	IntentUnknown         = "UNKNOWN"
)

// SystemPrompt instructs the model to answer with the interpretation schema
// and nothing else.
const SystemPrompt = `You translate CAD modeling requests into structured commands.
Respond with a single JSON object and no other text:
{
  "intent": "<TAG>",
  "confidence": 0.0-1.0,
  "parameters": { "<name>": {"value": <number>, "unit": "<unit>", "original": "<as spoken>"} },
  "message": "<one sentence for the user>",
  "needsClarification": <bool>,
  "clarificationQuestion": "<question or null>"
}
Intent tags: CREATE_BOX, CREATE_CYLINDER, CREATE_PLATE, CREATE_PART, ADD_EXTRUSION,
ADD_CUT, ADD_FILLET, ADD_CHAMFER, ADD_HOLE, ADD_PATTERN, MODIFY_DIMENSION, SAVE_PART,
EXPORT_PART, CLOSE_PART, UNDO, REDO, HELP, SHOW_INFO, UNKNOWN.
Dimension parameters use units in, mm, cm, m, or ft. Use the conversation summary
to resolve references like "it" or "the hole". When required parameters are
missing, set needsClarification true and ask one specific question.`
