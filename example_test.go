package lenient_test

import (
	"fmt"

	"github.com/reoring/lenient"
)

type fruit string

func Example() {
	reg := lenient.NewRegistry()
	lenient.RegisterType[fruit](reg, lenient.StringEnum[fruit]("apple", "pear"))

	js := []byte(`["apple","kiwi","pear"]`)

	_, _, err := lenient.Unmarshal[lenient.List[fruit]](js, lenient.DecodeOpt{Registry: reg})
	fmt.Println("strict:", err)

	v, log, err := lenient.Unmarshal[lenient.LenientList[fruit]](js, lenient.DecodeOpt{Registry: reg})
	if err != nil {
		fmt.Println("ERR:", err)
		return
	}
	fmt.Println("tolerant:", v)
	for _, rm := range log.RemovedElements() {
		fmt.Println("removed", rm.Path, rm.Err)
	}
	// Output:
	// strict: invalid_enum at /1
	// tolerant: [apple pear]
	// removed /1 invalid_enum at /1
}

func ExampleSet() {
	s, _, _ := lenient.Unmarshal[lenient.Set[int]]([]byte(`[3,1,3,2,1]`))
	fmt.Println(s.Values(), s.Len())
	// Output: [3 1 2] 3
}
