// Package bundle reads consultation bundles from disk.
//
// A bundle is either a single JSON file or a directory. The file form holds
// everything in one object:
//
//	{
//	  "id": "...", "title": "...", "audio": "consult.wav", "duration": 62.36,
//	  "speakers":   [{"id": "SPEAKER_00", "name": "Dr. Smith", "role": "clinician"}],
//	  "transcript": [{"utterance_id": "u1", "speaker": "SPEAKER_00", "text": "...", "start": 4.76, "end": 6.42}],
//	  "summary":    {"chief_complaint": [{"info": "...", "utterance_ids": ["u1"]}]},
//	  "words":      [{"word": "Hello", "start": 4.76, "end": 5.1}]
//	}
//
// The directory form splits the same data into transcript.json,
// summary.json, words.json and an optional bundle.json with the metadata.
// Audio next to the transcript is picked up when none is named.
//
// Transcript items and summary points may also use the normalised field
// names (startTime, endTime, speakerId, relatedSegmentIds), and summary may
// be an array of points instead of a category object.
//
// The audio path is resolved relative to the bundle.
package bundle
