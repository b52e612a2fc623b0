package routine

import (
	"maps"

	"github.com/vvka-141/sprocgen/internal/designation"
	"github.com/vvka-141/sprocgen/internal/docblock"
	"github.com/vvka-141/sprocgen/pkg/sprocgen"
)

// Facts are the RDBMS-reported facts about a loaded routine.
type Facts struct {
	Parameters []sprocgen.RoutineParameter
	Columns    []sprocgen.TableColumn // Bulk insert table columns; nil otherwise
}

// Assemble merges a prepared routine and its RDBMS facts into a metadata record.
func Assemble(p *Prepared, facts Facts, mapper sprocgen.TypeMapper) *sprocgen.RoutineMetadata {
	meta := &sprocgen.RoutineMetadata{
		ID:          ID(p.Name),
		RoutineName: p.Name,
		RoutineKind: p.Kind,
		Designation: p.Spec.Keyword(),
		TableName:   designation.Table(p.Spec),
		Parameters:  parameterInfos(facts.Parameters, p.Block, mapper),
		Columns:     designation.Columns(p.Spec),
		Timestamp:   p.Source.ModTime,
		Replace:     maps.Clone(p.Replace),
	}
	if meta.Replace == nil {
		meta.Replace = map[string]string{}
	}

	if _, ok := p.Spec.(designation.BulkInsert); ok {
		meta.Fields = make([]string, len(facts.Columns))
		meta.ColumnTypes = make([]string, len(facts.Columns))
		for i, c := range facts.Columns {
			meta.Fields[i] = c.Name
			meta.ColumnTypes[i] = c.Descriptor
		}
	}

	meta.Doc = wrapperDoc(p.Block, meta.Parameters)
	return meta
}

func parameterInfos(params []sprocgen.RoutineParameter, block docblock.DocBlock, mapper sprocgen.TypeMapper) []sprocgen.ParameterInfo {
	infos := make([]sprocgen.ParameterInfo, 0, len(params))
	for _, p := range params {
		mapping := mapper.MapType(p)
		infos = append(infos, sprocgen.ParameterInfo{
			Name:               p.Name,
			DataTypeDescriptor: p.Descriptor,
			TypeName:           mapping.Name,
			TypeHint:           mapping.Hint,
			TypeImport:         mapping.Import,
			Description:        block.ParamDescription(p.Name),
		})
	}
	return infos
}

func wrapperDoc(block docblock.DocBlock, params []sprocgen.ParameterInfo) sprocgen.WrapperDoc {
	doc := sprocgen.WrapperDoc{
		Description: block.Description,
		Parameters:  make([]sprocgen.ParameterDoc, 0, len(params)),
	}
	if ret, ok := block.Return(); ok {
		doc.Return = ret.Type
	}
	for _, p := range params {
		doc.Parameters = append(doc.Parameters, sprocgen.ParameterDoc{
			Name:        p.Name,
			TypeName:    p.TypeName,
			Descriptor:  p.DataTypeDescriptor,
			Description: p.Description,
		})
	}
	return doc
}
