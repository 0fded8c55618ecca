// Package schema holds the value types produced by the oraudt parser and
// consumed by the code generator.
//
// A specification document declares one or more classes, each bound to an
// Oracle object type and optionally to a collection (table/varray) type:
//
//	CLASS SkuRecord MYSCHEMA.objSku
//	    COLLECTION SkuRecordArray MYSCHEMA.tblSku
//	    NAMESPACE OracleUdts
//	    TOSTRING "{Sku}, {Barcode}"
//	    FIELDS [
//	        Sku
//	        decimal? Height
//	        int TrayItem TRAY_ITEM
//	    ]
//
// Each field is written as "[type] property [column]". The field resolver
// methods on [Field] derive the effective column name, the effective C# type
// and whether the property is a non-nullable value type.
//
// Values in this package are created once by the parser and never mutated
// afterwards, so they are safe to share between goroutines.
package schema
