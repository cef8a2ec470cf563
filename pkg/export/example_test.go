package export_test

import (
	"fmt"

	"github.com/matzehuels/kmltool/pkg/export"
)

func ExampleNumberedPath() {
	for n := 1; n <= 3; n++ {
		fmt.Println(export.NumberedPath("out/network.kmz", n))
	}
	fmt.Println(export.NumberedPath("parts", 12))
	// Output:
	// out/network01.kmz
	// out/network02.kmz
	// out/network03.kmz
	// parts12
}
