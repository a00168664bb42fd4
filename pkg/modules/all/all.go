// Package all registers every built-in tool module.
package all

import (
	"github.com/ccollicutt/qclog/pkg/modules"
	"github.com/ccollicutt/qclog/pkg/modules/afterqc"
	"github.com/ccollicutt/qclog/pkg/modules/bclconvert"
	"github.com/ccollicutt/qclog/pkg/modules/bowtie1"
	"github.com/ccollicutt/qclog/pkg/modules/busco"
	"github.com/ccollicutt/qclog/pkg/modules/coveragemetrics"
	"github.com/ccollicutt/qclog/pkg/modules/diamond"
	"github.com/ccollicutt/qclog/pkg/modules/eigenstrat"
	"github.com/ccollicutt/qclog/pkg/modules/filtlong"
	"github.com/ccollicutt/qclog/pkg/modules/gopeaks"
	"github.com/ccollicutt/qclog/pkg/modules/hisat2"
	"github.com/ccollicutt/qclog/pkg/modules/hops"
	"github.com/ccollicutt/qclog/pkg/modules/jaxtrimmer"
	"github.com/ccollicutt/qclog/pkg/modules/leehom"
	"github.com/ccollicutt/qclog/pkg/modules/librarian"
	"github.com/ccollicutt/qclog/pkg/modules/optitype"
	"github.com/ccollicutt/qclog/pkg/modules/primerclip"
	"github.com/ccollicutt/qclog/pkg/modules/theta2"
)

// Registry returns a registry holding every built-in module in report order.
func Registry() *modules.Registry {
	r := modules.NewRegistry()
	r.MustRegister(
		bclconvert.New(),
		primerclip.New(),
		coveragemetrics.New(),
		jaxtrimmer.New(),
		hisat2.New(),
		bowtie1.New(),
		leehom.New(),
		filtlong.New(),
		diamond.New(),
		busco.New(),
		afterqc.New(),
		gopeaks.New(),
		eigenstrat.New(),
		hops.New(),
		optitype.New(),
		librarian.New(),
		theta2.New(),
	)
	return r
}
