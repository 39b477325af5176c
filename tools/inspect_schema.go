// inspect_schema.go
//
// A retail marketplace backend: supplier price lists, catalog, basket and orders
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of Netology-final-diplom.
// Netology-final-diplom is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// Netology-final-diplom is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with Netology-final-diplom.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

// inspect_schema prints the DDL that AutoMigrate produces, using SQLite as the reference dialect.
package main

import (
	"fmt"
	"os"

	"github.com/somnambulistic-art/Netology-final-diplom/internal/database"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	log, _ := zap.NewDevelopment()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("failed to migrate", zap.Error(err))
	}

	var objects []struct {
		Type string
		Name string
		SQL  string
	}
	err = db.Raw("SELECT type, name, sql FROM sqlite_master WHERE sql IS NOT NULL ORDER BY tbl_name, type DESC, name").
		Scan(&objects).Error
	if err != nil {
		log.Fatal("failed to read schema", zap.Error(err))
	}

	for _, o := range objects {
		fmt.Fprintf(os.Stdout, "\n=== %s: %s ===\n%s\n", o.Type, o.Name, o.SQL)
	}
}
