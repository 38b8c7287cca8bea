// Package diagnose predicts a diagnosis from a set of selected symptoms
// using a pre-trained decision tree exported to ONNX.
//
// Quick start:
//
//	d, err := diagnose.New(diagnose.WithArtifactDir("models/"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer d.Close()
//
//	label, _ := d.Diagnose([]string{"demam", "batuk"})
//	fmt.Println(label)
//
// A Diagnoser loads its artifacts once and is safe for concurrent use.
package diagnose
